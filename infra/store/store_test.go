package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecord(day int, level string) Record {
	return Record{
		ID:        fmt.Sprintf("rec-%d", day),
		Date:      time.Date(2024, 4, day, 0, 0, 0, 0, time.UTC),
		Preset:    "rainy_day",
		Searches:  2000 + float64(day),
		Raw:       2000 + float64(day),
		Level:     level,
		Model:     "Linear Regression",
		CreatedAt: time.Date(2024, 4, day, 12, 0, 0, 0, time.UTC),
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	levels := []string{"LOW", "NORMAL", "HIGH", "NORMAL", "CRITICAL"}
	for i, lvl := range levels {
		if err := s.Append(ctx, sampleRecord(i+1, lvl)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 records, got %d", len(all))
	}
	if all[0].ID != "rec-1" || all[4].ID != "rec-5" {
		t.Fatalf("records out of order: %v .. %v", all[0].ID, all[4].ID)
	}

	normals, err := s.Query(ctx, Query{Level: "NORMAL"})
	if err != nil {
		t.Fatalf("query level: %v", err)
	}
	if len(normals) != 2 {
		t.Fatalf("expected 2 NORMAL records, got %d", len(normals))
	}

	ranged, err := s.Query(ctx, Query{
		From: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("query range: %v", err)
	}
	if len(ranged) != 3 {
		t.Fatalf("expected 3 records in range, got %d", len(ranged))
	}

	limited, err := s.Query(ctx, Query{Limit: 2})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 records, got %d", len(limited))
	}
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "forecast.log"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestJSONLStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.log")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.Append(context.Background(), sampleRecord(1, "NORMAL")); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := f.WriteString("{garbage\n"); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	f.Close()
	if err := s.Append(context.Background(), sampleRecord(2, "HIGH")); err != nil {
		t.Fatalf("append: %v", err)
	}
	recs, err := s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records around the corrupt line, got %d", len(recs))
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "forecast.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Append(context.Background(), sampleRecord(1, "NORMAL")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	recs, err := s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "rec-1" {
		t.Fatalf("record lost across reopen: %+v", recs)
	}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.Backend != "jsonl" || cfg.Path == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	bad := Config{Backend: "redis", Path: "x"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := New(Config{Backend: "redis", Path: "x"}); err == nil {
		t.Fatalf("expected error building unknown backend")
	}
}
