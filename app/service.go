package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apiforecast "github.com/cedricly/demandcast/api/forecast"
	"github.com/cedricly/demandcast/config"
	"github.com/cedricly/demandcast/core/forecast"
	"github.com/cedricly/demandcast/core/history"
	coremetrics "github.com/cedricly/demandcast/core/metrics"
	"github.com/cedricly/demandcast/core/model"
	"github.com/cedricly/demandcast/infra/logger"
	"github.com/cedricly/demandcast/infra/metrics"
	"github.com/cedricly/demandcast/infra/mqtt"
	"github.com/cedricly/demandcast/infra/store"
	"github.com/cedricly/demandcast/internal/eventbus"
)

// Service wires the forecast service to its sinks and surfaces.
type Service struct {
	Forecast *forecast.Service
	History  model.History

	cfg *config.Config
	bus *eventbus.Bus[coremetrics.ForecastEvent]
	st  store.Store
	pub mqtt.Publisher
	log logger.Logger
}

// New creates a Service from the configuration. The model artifact is
// loaded here so a broken deployment fails at startup, not on the
// first prediction.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	stats, hist := loadHistory(cfg.History.Path, logg)

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[coremetrics.ForecastEvent]()
	svc, err := forecast.LoadService(cfg.Model.Path, stats, logg, sink, bus)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	logg.Infof("model %s (%s) loaded, %d features", svc.Info().Name, svc.Info().Kind, len(svc.Info().Schema))

	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("forecast store: %w", err)
	}

	var pub mqtt.Publisher
	if cfg.MQTT.Enabled {
		pub, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	return &Service{
		Forecast: svc,
		History:  hist,
		cfg:      cfg,
		bus:      bus,
		st:       st,
		pub:      pub,
		log:      logg,
	}, nil
}

func loadHistory(path string, logg logger.Logger) (history.Stats, model.History) {
	stats := history.DefaultStats()
	var pts []history.Point
	if path != "" {
		loaded, err := history.LoadCSV(path)
		if err != nil {
			logg.Warnf("load history %s: %v, using default distribution", path, err)
		} else {
			pts = loaded
			if s, err := history.Compute(history.Series(pts)); err == nil {
				stats = s
			}
		}
	}
	last, weekAgo := history.LagValues(pts, stats)
	return stats, model.History{LastSearches: last, SearchesWeekAgo: weekAgo}
}

// Run starts the event consumer and HTTP servers, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consume(ctx)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	apiforecast.NewHandler(s.Forecast, s.History, s.st, s.log).Register(mux)
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// consume drains forecast events into the store and MQTT publisher.
func (s *Service) consume(ctx context.Context) {
	ch := s.bus.Subscribe()
	for ev := range ch {
		if s.st != nil {
			rec := store.Record{
				ID:        ev.ID,
				Date:      ev.Date,
				Preset:    ev.Preset,
				Searches:  ev.Searches,
				Raw:       ev.Raw,
				Level:     string(ev.Level),
				Model:     ev.Model,
				CreatedAt: ev.Time,
			}
			if err := s.st.Append(ctx, rec); err != nil {
				s.log.Errorf("store forecast %s: %v", ev.ID, err)
			}
		}
		if s.pub != nil {
			if err := s.pub.PublishForecast(ev); err != nil {
				s.log.Errorf("publish forecast %s: %v", ev.ID, err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.pub != nil {
		s.pub.Close()
	}
	if s.st != nil {
		return s.st.Close()
	}
	return nil
}
