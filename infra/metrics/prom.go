package metrics

import (
	coremetrics "github.com/cedricly/demandcast/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records forecast events in Prometheus metrics.
type PromSink struct {
	events   *prometheus.CounterVec
	searches *prometheus.HistogramVec
	latency  prometheus.Histogram
}

// NewPromSink registers forecast metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_events_total",
		Help: "Total number of forecast predictions served",
	}, []string{"preset", "level", "model"})
	searches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forecast_predicted_searches",
		Help:    "Distribution of predicted daily search volumes",
		Buckets: prometheus.LinearBuckets(0, 500, 12),
	}, []string{"level"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_duration_seconds",
		Help:    "Time spent encoding and evaluating one prediction",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(searches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			searches = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, searches: searches, latency: latency}, nil
}

// RecordForecast increments the counters for each event.
func (s *PromSink) RecordForecast(events []coremetrics.ForecastEvent) error {
	for _, ev := range events {
		preset := ev.Preset
		if preset == "" {
			preset = "custom"
		}
		s.events.WithLabelValues(preset, string(ev.Level), ev.Model).Inc()
		s.searches.WithLabelValues(string(ev.Level)).Observe(ev.Searches)
		s.latency.Observe(ev.Duration.Seconds())
	}
	return nil
}
