package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/cedricly/demandcast/core/metrics"
	"github.com/cedricly/demandcast/infra/mqtt"
	"github.com/cedricly/demandcast/infra/store"
)

type Config struct {
	Model   ModelConfig        `json:"model"`
	History HistoryConfig      `json:"history"`
	API     APIConfig          `json:"api"`
	Metrics coremetrics.Config `json:"metrics"`
	MQTT    mqtt.Config        `json:"mqtt"`
	Store   store.Config       `json:"store"`
}

// ModelConfig locates the trained artifact.
type ModelConfig struct {
	// Path is the JSON model artifact written by the training pipeline.
	Path string `json:"path"`
}

// Validate checks mandatory fields.
func (c ModelConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("model path is required")
	}
	return nil
}

// HistoryConfig locates the historical search series. An empty path
// falls back to the documented default distribution.
type HistoryConfig struct {
	Path string `json:"path"`
}

// APIConfig defines the HTTP API server settings.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Load reads the configuration file at path (yaml or json) and applies
// DC_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("DC_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "dc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Store.SetDefaults()
	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
