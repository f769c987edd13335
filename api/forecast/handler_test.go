package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cedricly/demandcast/core/feature"
	coreforecast "github.com/cedricly/demandcast/core/forecast"
	"github.com/cedricly/demandcast/core/history"
	"github.com/cedricly/demandcast/core/model"
	"github.com/cedricly/demandcast/infra/store"
)

func testService(t *testing.T) *coreforecast.Service {
	t.Helper()
	a := &coreforecast.Artifact{
		Name:   "Linear Regression",
		Kind:   "linear",
		Schema: feature.Schema{feature.TempMax, feature.Precipitation, feature.IsHoliday, feature.SearchesLag1},
		Linear: &coreforecast.LinearParams{
			Intercept:    1000,
			Coefficients: []float64{10, -20, 300, 0.5},
		},
		Quality: coreforecast.Quality{R2: 0.3652, RMSE: 684.56},
	}
	svc, err := coreforecast.NewService(a, history.DefaultStats(), nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testMux(t *testing.T, st store.Store) *http.ServeMux {
	t.Helper()
	hist := model.History{LastSearches: 2000, SearchesWeekAgo: 2000}
	h := NewHandler(testService(t), hist, st, nil)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func TestPredictPreset(t *testing.T) {
	mux := testMux(t, nil)
	body := `{"preset":"rainy_day"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Prediction model.Prediction `json:"prediction"`
		Advice     struct {
			Priority   string `json:"priority"`
			Platform   string `json:"platform"`
			Restaurant string `json:"restaurant"`
		} `json:"advice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Prediction.Searches < 0 || resp.Prediction.Level == "" {
		t.Fatalf("incomplete prediction: %+v", resp.Prediction)
	}
	if resp.Advice.Platform == "" || resp.Advice.Restaurant == "" {
		t.Fatalf("advice missing: %+v", resp.Advice)
	}
}

func TestPredictExplicitScenarioWithOverridePrecedence(t *testing.T) {
	mux := testMux(t, nil)
	body := `{"preset":"rainy_day","overrides":{"temp_max":25}}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Prediction model.Prediction `json:"prediction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Prediction.Scenario.TempMax != 25 {
		t.Fatalf("override lost: %+v", resp.Prediction.Scenario)
	}
}

func TestPredictCustomScenario(t *testing.T) {
	mux := testMux(t, nil)
	body := `{"scenario":{"date":"2024-04-01","temp_max":5,"temp_min":1,"precipitation":10,"holiday":true}}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPredictBadInput(t *testing.T) {
	mux := testMux(t, nil)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"unknown preset", `{"preset":"monsoon"}`, http.StatusBadRequest},
		{"negative precip", `{"scenario":{"date":"2024-04-01","temp_max":5,"temp_min":1,"precipitation":-1}}`, http.StatusBadRequest},
		{"no scenario", `{}`, http.StatusBadRequest},
		{"bad date", `{"scenario":{"date":"April 1st"}}`, http.StatusBadRequest},
		{"not json", `{{{`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(c.body)))
		if rec.Code != c.code {
			t.Fatalf("%s: status = %d, want %d", c.name, rec.Code, c.code)
		}
	}
}

func TestPredictMethodNotAllowed(t *testing.T) {
	mux := testMux(t, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWeekForecast(t *testing.T) {
	mux := testMux(t, nil)
	var req struct {
		Scenarios []ScenarioRequest `json:"scenarios"`
	}
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		req.Scenarios = append(req.Scenarios, ScenarioRequest{
			Date:    base.AddDate(0, 0, i).Format("2006-01-02"),
			TempMax: 15,
			TempMin: 8,
		})
	}
	body, _ := json.Marshal(req)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forecast/week", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Predictions []model.Prediction `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Predictions) != 7 {
		t.Fatalf("expected 7 predictions, got %d", len(resp.Predictions))
	}
	for i := 1; i < 7; i++ {
		if !resp.Predictions[i].Scenario.Date.After(resp.Predictions[i-1].Scenario.Date) {
			t.Fatalf("predictions not ordered by date")
		}
	}
}

func TestPresets(t *testing.T) {
	mux := testMux(t, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast/presets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var presets []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(presets) == 0 {
		t.Fatalf("no presets returned")
	}
}

func TestHistoryEndpoint(t *testing.T) {
	st, err := store.NewJSONLStore(filepath.Join(t.TempDir(), "forecast.log"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	for i, lvl := range []string{"LOW", "HIGH", "HIGH"} {
		rec := store.Record{
			ID:    "rec",
			Date:  time.Date(2024, 4, i+1, 0, 0, 0, 0, time.UTC),
			Level: lvl,
		}
		if err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	mux := testMux(t, st)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast/history?level=HIGH", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var recs []store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 HIGH records, got %d", len(recs))
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast/history?limit=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit should 400, got %d", rec.Code)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	mux := testMux(t, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestModelInfo(t *testing.T) {
	mux := testMux(t, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecast/model", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Model coreforecast.ModelInfo `json:"model"`
		Stats history.Stats          `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Model.Name != "Linear Regression" || resp.Model.Quality.R2 != 0.3652 {
		t.Fatalf("model info = %+v", resp.Model)
	}
	if resp.Stats.Mean == 0 {
		t.Fatalf("stats missing")
	}
}
