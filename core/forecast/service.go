package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cedricly/demandcast/core/feature"
	"github.com/cedricly/demandcast/core/history"
	"github.com/cedricly/demandcast/core/logger"
	"github.com/cedricly/demandcast/core/metrics"
	"github.com/cedricly/demandcast/core/model"
	"github.com/cedricly/demandcast/internal/eventbus"
)

// Service applies the loaded model to scenarios. The artifact is read
// once at construction; everything else is per-request state, so a
// single Service serves concurrent callers.
type Service struct {
	model Model
	enc   *feature.Encoder
	info  ModelInfo
	stats history.Stats
	log   logger.Logger
	sink  metrics.Sink
	bus   *eventbus.Bus[metrics.ForecastEvent]
	now   func() time.Time
	newID func() string
}

// ModelInfo describes the loaded artifact for display surfaces.
type ModelInfo struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Schema  feature.Schema `json:"schema"`
	Quality Quality        `json:"quality"`
}

// NewService builds a Service from a decoded artifact. Sink and bus
// may be nil; log may be nil for a silent service.
func NewService(a *Artifact, stats history.Stats, log logger.Logger, sink metrics.Sink, bus *eventbus.Bus[metrics.ForecastEvent]) (*Service, error) {
	m, err := a.Model()
	if err != nil {
		return nil, err
	}
	enc, err := a.Encoder()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Service{
		model: m,
		enc:   enc,
		info:  ModelInfo{Name: a.Name, Kind: a.Kind, Schema: a.Schema, Quality: a.Quality},
		stats: stats,
		log:   log,
		sink:  sink,
		bus:   bus,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}, nil
}

// LoadService reads the artifact at path and builds a Service from it.
// Callers should treat an error as fatal at startup.
func LoadService(path string, stats history.Stats, log logger.Logger, sink metrics.Sink, bus *eventbus.Bus[metrics.ForecastEvent]) (*Service, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return NewService(a, stats, log, sink, bus)
}

// Info returns the loaded model's metadata.
func (s *Service) Info() ModelInfo { return s.info }

// Stats returns the historical distribution the service categorizes
// against.
func (s *Service) Stats() history.Stats { return s.stats }

// Predict encodes the scenario and applies the model. The returned
// search volume is clamped at zero as a documented policy (demand
// cannot be negative); Raw keeps the unclamped output.
func (s *Service) Predict(sc model.Scenario, h model.History) (model.Prediction, error) {
	start := s.now()
	vec, err := s.enc.Encode(sc, h)
	if err != nil {
		return model.Prediction{}, err
	}
	raw, err := s.model.Predict(vec)
	if err != nil {
		return model.Prediction{}, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return model.Prediction{}, fmt.Errorf("model produced non-finite output %v", raw)
	}
	searches := raw
	if searches < 0 {
		searches = 0
	}
	assessment := history.Categorize(searches, s.stats)
	pred := model.Prediction{
		ID:        s.newID(),
		Scenario:  sc,
		Searches:  searches,
		Raw:       raw,
		Level:     assessment.Level,
		DeltaPct:  deltaPct(searches, s.stats.Mean),
		Warnings:  s.enc.OutOfRange(sc),
		Model:     s.info.Name,
		CreatedAt: start,
	}
	s.record(pred, s.now().Sub(start))
	return pred, nil
}

// Assess returns the operational reading for a prediction.
func (s *Service) Assess(p model.Prediction) history.Assessment {
	return history.Categorize(p.Searches, s.stats)
}

// ForecastHorizon predicts a run of scenarios in date order, feeding
// each prediction into the following days' search lag features the way
// the training pipeline rolled its forecasts forward.
func (s *Service) ForecastHorizon(scenarios []model.Scenario, h model.History) ([]model.Prediction, error) {
	if len(scenarios) == 0 {
		return nil, nil
	}
	ordered := make([]model.Scenario, len(scenarios))
	copy(ordered, scenarios)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	roll := h
	roll.Weather = append([]model.WeatherDay(nil), h.Weather...)
	byDay := make(map[string]float64)

	preds := make([]model.Prediction, 0, len(ordered))
	for _, sc := range ordered {
		if v, ok := byDay[dayKey(sc.Date.AddDate(0, 0, -7))]; ok {
			roll.SearchesWeekAgo = v
		}
		p, err := s.Predict(sc, roll)
		if err != nil {
			return nil, fmt.Errorf("forecast %s: %w", sc.Date.Format("2006-01-02"), err)
		}
		preds = append(preds, p)
		byDay[dayKey(sc.Date)] = p.Searches
		roll.LastSearches = p.Searches
		roll.Weather = append(roll.Weather, model.WeatherDay{
			Date: sc.Date, TempMax: sc.TempMax, TempMin: sc.TempMin, Precipitation: sc.Precipitation,
		})
	}
	return preds, nil
}

func (s *Service) record(p model.Prediction, took time.Duration) {
	ev := metrics.ForecastEvent{
		ID:       p.ID,
		Preset:   p.Scenario.Label,
		Date:     p.Scenario.Date,
		Searches: p.Searches,
		Raw:      p.Raw,
		Level:    p.Level,
		Model:    p.Model,
		Duration: took,
		Time:     p.CreatedAt,
	}
	if err := s.sink.RecordForecast([]metrics.ForecastEvent{ev}); err != nil {
		s.log.Errorf("record forecast: %v", err)
	}
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func deltaPct(v, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return (v - mean) / mean * 100
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
