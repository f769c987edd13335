// Package scenario maps qualitative condition labels to concrete
// scenario values and applies user overrides, so what-if exploration
// works without live data.
package scenario

import (
	"errors"
	"fmt"
	"time"

	"github.com/cedricly/demandcast/core/feature"
	"github.com/cedricly/demandcast/core/model"
)

// ErrUnknownPreset is returned for preset names outside the table.
var ErrUnknownPreset = errors.New("unknown preset")

// Overrides replaces individual preset fields. Nil fields keep the
// preset default; set fields win field-by-field.
type Overrides struct {
	Date          *time.Time `json:"date,omitempty"`
	TempMax       *float64   `json:"temp_max,omitempty"`
	TempMin       *float64   `json:"temp_min,omitempty"`
	Precipitation *float64   `json:"precipitation,omitempty"`
	Holiday       *bool      `json:"holiday,omitempty"`
}

// Apply merges overrides over a base scenario.
func Apply(base model.Scenario, ov Overrides) model.Scenario {
	if ov.Date != nil {
		base.Date = *ov.Date
	}
	if ov.TempMax != nil {
		base.TempMax = *ov.TempMax
	}
	if ov.TempMin != nil {
		base.TempMin = *ov.TempMin
	}
	if ov.Precipitation != nil {
		base.Precipitation = *ov.Precipitation
	}
	if ov.Holiday != nil {
		base.Holiday = *ov.Holiday
	}
	return base
}

// Build resolves a preset name, applies overrides and validates the
// result, guaranteeing the returned scenario is acceptable encoder
// input. Deterministic: same name and overrides, same scenario.
func Build(name string, ov Overrides) (model.Scenario, error) {
	for _, p := range presets {
		if p.Name != name {
			continue
		}
		sc := Apply(p.Scenario, ov)
		if err := feature.Validate(sc); err != nil {
			return model.Scenario{}, fmt.Errorf("preset %s with overrides: %w", name, err)
		}
		return sc, nil
	}
	return model.Scenario{}, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
}
