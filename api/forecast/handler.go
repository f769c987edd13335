// Package forecast exposes the prediction service over a small JSON
// HTTP API consumed by the dashboard front end.
package forecast

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cedricly/demandcast/core/feature"
	coreforecast "github.com/cedricly/demandcast/core/forecast"
	"github.com/cedricly/demandcast/core/model"
	"github.com/cedricly/demandcast/core/scenario"
	"github.com/cedricly/demandcast/infra/logger"
	"github.com/cedricly/demandcast/infra/store"
)

// Handler serves the forecast API.
type Handler struct {
	svc  *coreforecast.Service
	hist model.History
	st   store.Store
	log  logger.Logger
}

// NewHandler builds a Handler. hist seeds the lag features for every
// request; st may be nil when no forecast log is configured.
func NewHandler(svc *coreforecast.Service, hist model.History, st store.Store, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{svc: svc, hist: hist, st: st, log: log}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/forecast", h.predict)
	mux.HandleFunc("/api/forecast/week", h.week)
	mux.HandleFunc("/api/forecast/presets", h.presets)
	mux.HandleFunc("/api/forecast/history", h.history)
	mux.HandleFunc("/api/forecast/model", h.modelInfo)
}

// ScenarioRequest is the JSON form of a scenario.
type ScenarioRequest struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Precipitation float64 `json:"precipitation"`
	Holiday       bool    `json:"holiday"`
}

func (r ScenarioRequest) toModel() (model.Scenario, error) {
	var sc model.Scenario
	if r.Date != "" {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return model.Scenario{}, err
		}
		sc.Date = d
	}
	sc.TempMax = r.TempMax
	sc.TempMin = r.TempMin
	sc.Precipitation = r.Precipitation
	sc.Holiday = r.Holiday
	return sc, nil
}

type predictRequest struct {
	Preset    string              `json:"preset,omitempty"`
	Overrides *scenario.Overrides `json:"overrides,omitempty"`
	Scenario  *ScenarioRequest    `json:"scenario,omitempty"`
}

type predictResponse struct {
	Prediction model.Prediction `json:"prediction"`
	Advice     adviceResponse   `json:"advice"`
}

type adviceResponse struct {
	Priority   string `json:"priority"`
	Platform   string `json:"platform"`
	Restaurant string `json:"restaurant"`
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sc, err := h.resolveScenario(req)
	if err != nil {
		writeError(w, err)
		return
	}
	pred, err := h.svc.Predict(sc, h.hist)
	if err != nil {
		writeError(w, err)
		return
	}
	a := h.svc.Assess(pred)
	writeJSON(w, predictResponse{
		Prediction: pred,
		Advice:     adviceResponse{Priority: a.Priority, Platform: a.Platform, Restaurant: a.Restaurant},
	})
}

func (h *Handler) resolveScenario(req predictRequest) (model.Scenario, error) {
	if req.Preset != "" {
		var ov scenario.Overrides
		if req.Overrides != nil {
			ov = *req.Overrides
		}
		return scenario.Build(req.Preset, ov)
	}
	if req.Scenario == nil {
		return model.Scenario{}, feature.ErrInvalidInput
	}
	sc, err := req.Scenario.toModel()
	if err != nil {
		return model.Scenario{}, feature.ErrInvalidInput
	}
	if err := feature.Validate(sc); err != nil {
		return model.Scenario{}, err
	}
	return sc, nil
}

type weekRequest struct {
	Scenarios []ScenarioRequest `json:"scenarios"`
}

func (h *Handler) week(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req weekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	scs := make([]model.Scenario, 0, len(req.Scenarios))
	for _, sr := range req.Scenarios {
		sc, err := sr.toModel()
		if err != nil {
			writeError(w, feature.ErrInvalidInput)
			return
		}
		scs = append(scs, sc)
	}
	preds, err := h.svc.ForecastHorizon(scs, h.hist)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"predictions": preds})
}

func (h *Handler) presets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, scenario.Presets())
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.st == nil {
		writeJSON(w, []store.Record{})
		return
	}
	q := store.Query{Level: r.URL.Query().Get("level")}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		q.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		q.To = t
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		q.Limit = n
	}
	recs, err := h.st.Query(r.Context(), q)
	if err != nil {
		h.log.Errorf("query history: %v", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, recs)
}

func (h *Handler) modelInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"model": h.svc.Info(),
		"stats": h.svc.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feature.ErrInvalidInput), errors.Is(err, scenario.ErrUnknownPreset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, feature.ErrSchemaMismatch):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
