package metrics

import (
	"errors"

	coremetrics "github.com/cedricly/demandcast/core/metrics"
)

// MultiSink fans events out to several sinks, collecting all errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordForecast forwards the events to every sink.
func (m *MultiSink) RecordForecast(events []coremetrics.ForecastEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordForecast(events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
