package mqtt

import (
	"testing"
	"time"

	coremetrics "github.com/cedricly/demandcast/core/metrics"
	"github.com/cedricly/demandcast/core/model"
)

func TestMockPublisherRecords(t *testing.T) {
	pub := NewMockPublisher()
	ev := coremetrics.ForecastEvent{
		ID:       "ev-1",
		Preset:   "cold_snap",
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Searches: 2600,
		Level:    model.DemandHigh,
		Model:    "Linear Regression",
	}
	if err := pub.PublishForecast(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got := pub.Published()
	if len(got) != 1 || got[0].ID != "ev-1" {
		t.Fatalf("event not recorded: %+v", got)
	}

	pub.Fail = true
	if err := pub.PublishForecast(ev); err == nil {
		t.Fatalf("expected failure")
	}
	if len(pub.Published()) != 1 {
		t.Fatalf("failed publish must not record")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.ClientID != "demandcast" {
		t.Fatalf("client_id default = %q", cfg.ClientID)
	}
	if cfg.Topic != "demandcast/forecast" {
		t.Fatalf("topic default = %q", cfg.Topic)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true, ClientID: "x", Topic: "t"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("enabled config without broker must fail")
	}
	cfg.Broker = "tcp://localhost:1883"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	disabled := Config{}
	disabled.SetDefaults()
	if err := disabled.Validate(); err != nil {
		t.Fatalf("disabled config must validate: %v", err)
	}
}
