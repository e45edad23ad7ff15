// Package config loads the YAML-backed server/engine configuration for
// morphd, applying defaults for any zero-valued field after unmarshal.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level morphd configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the outer transport shell.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	MaxMessageSizeMB int    `yaml:"max_message_size_mb"`
}

// EngineConfig configures the morph engine itself.
type EngineConfig struct {
	JPEGQuality     int       `yaml:"jpeg_quality"`
	DefaultAlpha    float64   `yaml:"default_alpha"`
	OverlayOn       bool      `yaml:"overlay_enabled"`
	IsAnimalDefault bool      `yaml:"is_animal_default"`
	HullBlurRadii   []float64 `yaml:"hull_blur_radii"`
	MouthBlurRadii  []float64 `yaml:"mouth_blur_radii"`
}

// LoggingConfig controls the per-call sampling/auto-flush logging knobs.
type LoggingConfig struct {
	Level           string `yaml:"level"`
	BufferedLogging bool   `yaml:"buffered_logging"`
	SampleRate      int    `yaml:"sample_rate"`
	AutoFlush       bool   `yaml:"auto_flush"`
	FlushIntervalMs int    `yaml:"flush_interval_ms"`
}

// Load reads and parses a YAML config file, applying defaults to any
// zero-valued fields afterward.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8090"
	}
	if cfg.Server.MaxMessageSizeMB == 0 {
		cfg.Server.MaxMessageSizeMB = 50
	}
	if cfg.Engine.JPEGQuality == 0 {
		cfg.Engine.JPEGQuality = 85
	}
	if cfg.Engine.DefaultAlpha == 0 {
		cfg.Engine.DefaultAlpha = 1.0
	}
	if len(cfg.Engine.HullBlurRadii) == 0 {
		cfg.Engine.HullBlurRadii = []float64{60, 50, 40, 25, 10}
	}
	if len(cfg.Engine.MouthBlurRadii) == 0 {
		cfg.Engine.MouthBlurRadii = []float64{3}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.FlushIntervalMs == 0 {
		cfg.Logging.FlushIntervalMs = 1000
	}
}
