package feature

import (
	"fmt"
	"math"

	"github.com/cedricly/demandcast/core/model"
)

// Norm holds the normalization constants captured at training time for
// one feature. Std == 0 means the feature passes through unscaled.
type Norm struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Range is the span a raw input covered in the training data. Values
// outside it still encode; they only produce a warning.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Encoder turns scenarios into the exact numeric vector a trained
// model expects. It is pure: the same scenario and history always yield
// the same vector.
type Encoder struct {
	schema Schema
	norm   map[string]Norm
	ranges map[string]Range
}

// NewEncoder builds an encoder for the given trained schema. Schemas
// naming features the encoder cannot derive are rejected with
// ErrSchemaMismatch.
func NewEncoder(schema Schema, norm map[string]Norm, ranges map[string]Range) (*Encoder, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("empty schema: %w", ErrSchemaMismatch)
	}
	for _, name := range schema {
		if !derivable[name] {
			return nil, fmt.Errorf("unknown feature %q: %w", name, ErrSchemaMismatch)
		}
	}
	return &Encoder{schema: schema, norm: norm, ranges: ranges}, nil
}

// Schema returns the trained feature order the encoder produces.
func (e *Encoder) Schema() Schema { return e.schema }

// Validate checks a scenario against the physically plausible input
// ranges. Extreme but finite values pass; see OutOfRange for the
// out-of-distribution policy.
func Validate(sc model.Scenario) error {
	for name, v := range map[string]float64{
		"temp_max":      sc.TempMax,
		"temp_min":      sc.TempMin,
		"precipitation": sc.Precipitation,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite: %w", name, ErrInvalidInput)
		}
	}
	if sc.Precipitation < 0 {
		return fmt.Errorf("precipitation %.1fmm is negative: %w", sc.Precipitation, ErrInvalidInput)
	}
	if sc.TempMin > sc.TempMax {
		return fmt.Errorf("temp_min %.1f above temp_max %.1f: %w", sc.TempMin, sc.TempMax, ErrInvalidInput)
	}
	if sc.Date.IsZero() {
		return fmt.Errorf("date is required: %w", ErrInvalidInput)
	}
	return nil
}

// Encode produces the feature vector for one scenario. History fills
// the lag and rolling features; when a lagged day is unknown the
// current day's weather is carried back, matching the forward-fill the
// training pipeline applied.
func (e *Encoder) Encode(sc model.Scenario, h model.History) (Vector, error) {
	if err := Validate(sc); err != nil {
		return Vector{}, err
	}
	m := derive(sc, h)
	vals := make([]float64, len(e.schema))
	for i, name := range e.schema {
		v, ok := m[name]
		if !ok {
			return Vector{}, fmt.Errorf("cannot derive %q: %w", name, ErrSchemaMismatch)
		}
		if n, ok := e.norm[name]; ok && n.Std != 0 {
			v = (v - n.Mean) / n.Std
		}
		vals[i] = v
	}
	return Vector{Schema: e.schema, Values: vals}, nil
}

// OutOfRange lists the scenario inputs that fall outside the training
// distribution recorded in the artifact. Empty when no ranges were
// recorded.
func (e *Encoder) OutOfRange(sc model.Scenario) []string {
	if len(e.ranges) == 0 {
		return nil
	}
	var warns []string
	for _, c := range []struct {
		name string
		v    float64
	}{
		{TempMax, sc.TempMax},
		{TempMin, sc.TempMin},
		{Precipitation, sc.Precipitation},
	} {
		r, ok := e.ranges[c.name]
		if !ok {
			continue
		}
		if c.v < r.Min || c.v > r.Max {
			warns = append(warns, fmt.Sprintf("%s=%.1f outside training range [%.1f, %.1f]", c.name, c.v, r.Min, r.Max))
		}
	}
	return warns
}

func derive(sc model.Scenario, h model.History) map[string]float64 {
	dow := float64(sc.DayOfWeek())
	month := float64(sc.Date.Month())
	weekend := boolFeature(sc.Weekend())
	comfort := sc.AvgTemp()

	lag1 := weatherLagOr(sc, h, 1)
	lag7 := weatherLagOr(sc, h, 7)
	roll := model.WeatherDay{TempMax: sc.TempMax, Precipitation: sc.Precipitation}
	if tm, pr, ok := h.Rolling7(sc.Date); ok {
		roll.TempMax, roll.Precipitation = tm, pr
	}

	return map[string]float64{
		IsWeekend:     weekend,
		IsHoliday:     boolFeature(sc.Holiday),
		DayOfWeekSin:  math.Sin(2 * math.Pi * dow / 7),
		DayOfWeekCos:  math.Cos(2 * math.Pi * dow / 7),
		MonthSin:      math.Sin(2 * math.Pi * month / 12),
		MonthCos:      math.Cos(2 * math.Pi * month / 12),
		TempMax:       sc.TempMax,
		TempMin:       sc.TempMin,
		Precipitation: sc.Precipitation,
		TempRange:     sc.TempMax - sc.TempMin,
		TempComfort:   comfort,
		PrecipBinary:  boolFeature(sc.Precipitation > 0),
		PrecipHeavy:   boolFeature(sc.Precipitation > 10),

		TempMaxLag1:       lag1.TempMax,
		TempMinLag1:       lag1.TempMin,
		PrecipitationLag1: lag1.Precipitation,
		SearchesLag1:      h.LastSearches,
		SearchesLag7:      h.SearchesWeekAgo,
		TempMaxLag7:       lag7.TempMax,
		TempMinLag7:       lag7.TempMin,
		PrecipitationLag7: lag7.Precipitation,

		TempMax7d:       roll.TempMax,
		Precipitation7d: roll.Precipitation,
		TempMaxSquared:  sc.TempMax * sc.TempMax,

		TempMaxWeekend:       sc.TempMax * weekend,
		PrecipitationWeekend: sc.Precipitation * weekend,
		TempComfortWeekend:   comfort * weekend,
	}
}

func weatherLagOr(sc model.Scenario, h model.History, days int) model.WeatherDay {
	if w, ok := h.WeatherLag(sc.Date, days); ok {
		return w
	}
	return model.WeatherDay{TempMax: sc.TempMax, TempMin: sc.TempMin, Precipitation: sc.Precipitation}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
