package model

import "time"

// DemandLevel buckets a predicted search volume against the historical
// distribution.
type DemandLevel string

const (
	DemandLow      DemandLevel = "LOW"
	DemandNormal   DemandLevel = "NORMAL"
	DemandHigh     DemandLevel = "HIGH"
	DemandCritical DemandLevel = "CRITICAL"
)

// Prediction is the result of applying the trained model to one
// encoded scenario. Searches is clamped at zero because demand cannot
// be negative; Raw keeps the unclamped model output.
type Prediction struct {
	ID        string      `json:"id"`
	Scenario  Scenario    `json:"scenario"`
	Searches  float64     `json:"searches"`
	Raw       float64     `json:"raw"`
	Level     DemandLevel `json:"level"`
	DeltaPct  float64     `json:"delta_pct"` // vs the historical mean
	Warnings  []string    `json:"warnings,omitempty"`
	Model     string      `json:"model"`
	CreatedAt time.Time   `json:"created_at"`
}
