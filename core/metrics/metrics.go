// Package metrics defines the observability events the forecast
// service emits and the sink interfaces infra adapters implement.
package metrics

import (
	"time"

	"github.com/cedricly/demandcast/core/model"
)

// ForecastEvent is one recorded prediction.
type ForecastEvent struct {
	ID       string
	Preset   string
	Date     time.Time
	Searches float64
	Raw      float64
	Level    model.DemandLevel
	Model    string
	Duration time.Duration
	Time     time.Time
}

// Sink records forecast events for observability purposes.
type Sink interface {
	RecordForecast(events []ForecastEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordForecast implements Sink.
func (NopSink) RecordForecast([]ForecastEvent) error { return nil }
