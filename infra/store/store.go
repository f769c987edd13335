// Package store persists served predictions so the dashboard can show
// past forecasts and operators can audit them.
package store

import (
	"context"
	"fmt"
	"time"
)

// Record is one persisted prediction.
type Record struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Preset    string    `json:"preset,omitempty"`
	Searches  float64   `json:"searches"`
	Raw       float64   `json:"raw"`
	Level     string    `json:"level"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Query filters stored records. Zero fields are ignored.
type Query struct {
	From  time.Time
	To    time.Time
	Level string
	Limit int
}

// Store appends and queries forecast records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects the forecast log backend.
type Config struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "forecast.log"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// New builds the store described by cfg.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	}
	return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
}

func (q Query) matches(rec Record) bool {
	if !q.From.IsZero() && rec.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && rec.Date.After(q.To) {
		return false
	}
	if q.Level != "" && rec.Level != q.Level {
		return false
	}
	return true
}
