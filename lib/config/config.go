// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for CamIO.
type Config struct {
	// Assets configures drawing asset resolution.
	Assets AssetsConfig `yaml:"assets"`

	// Realtime configures the connection to the remote model.
	Realtime RealtimeConfig `yaml:"realtime"`

	// Position configures pointed-position encoding.
	Position PositionConfig `yaml:"position"`

	// Pruning configures conversation context eviction.
	Pruning PruningConfig `yaml:"pruning"`

	// Benchmark configures test-mode question replay.
	Benchmark BenchmarkConfig `yaml:"benchmark"`
}

// AssetsConfig configures drawing asset resolution.
type AssetsConfig struct {
	// Base is the directory or URL prefix under which drawings live.
	// Each drawing is a subdirectory containing data.json, template.png,
	// and colorMap.png.
	Base string `yaml:"base"`

	// Drawing is the name of the drawing to load (e.g. "Islet2").
	Drawing string `yaml:"drawing"`

	// MaxImageBytes is the byte-size ceiling for images sent to the
	// model. Images that cannot be compressed under this ceiling abort
	// session setup. Default: 220 KB.
	MaxImageBytes int `yaml:"max_image_bytes"`
}

// RealtimeConfig configures the connection to the remote model.
type RealtimeConfig struct {
	// CallEndpoint is the URL the SDP offer is POSTed to.
	// Default: https://api.openai.com/v1/realtime/calls
	CallEndpoint string `yaml:"call_endpoint"`

	// CredentialEndpoint is the URL of the ephemeral key provider.
	CredentialEndpoint string `yaml:"credential_endpoint"`

	// Model is the realtime model name. Default: gpt-realtime.
	Model string `yaml:"model"`

	// Voice is the output voice. Default: cedar.
	Voice string `yaml:"voice"`

	// InputTokenLimit is the model's input context-size limit. Reported
	// input-token usage is compared against this for conversation
	// pruning. Default: 28672.
	InputTokenLimit int `yaml:"input_token_limit"`
}

// PositionConfig configures pointed-position encoding.
type PositionConfig struct {
	// Strategy selects how the pointed position is encoded for the
	// model. One of: none, normCoord, normCoordAndHotspot, coord,
	// coordAndHotspot, imgWithPos, imgWithPosAndHotspot.
	// Fixed for the lifetime of a session.
	Strategy string `yaml:"strategy"`

	// ChangeThresholdPx is the per-axis pixel distance below which two
	// consecutive positions are considered unchanged. Default: 5.
	ChangeThresholdPx int `yaml:"change_threshold_px"`
}

// PruningConfig configures conversation context eviction.
type PruningConfig struct {
	// LimitRate is the fraction of the input token limit at which
	// pruning triggers. Default: 0.8.
	LimitRate float64 `yaml:"limit_rate"`

	// RemovalRate is the fraction of tracked items removed per pruning
	// pass. Default: 0.3.
	RemovalRate float64 `yaml:"removal_rate"`
}

// BenchmarkConfig configures test-mode question replay.
type BenchmarkConfig struct {
	// Enabled turns on test mode: voice-activity detection stays off
	// and responses are text-only so latency measurements are stable.
	Enabled bool `yaml:"enabled"`

	// FixtureFile is the YAML file holding the benchmark question list.
	FixtureFile string `yaml:"fixture_file"`
}

// Default returns the default configuration. These defaults are used as
// a base before loading the config file. They exist primarily to ensure
// all fields have sensible zero-values, not as a fallback - the config
// file is required.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			MaxImageBytes: 220 * 1024,
		},
		Realtime: RealtimeConfig{
			CallEndpoint:    "https://api.openai.com/v1/realtime/calls",
			Model:           "gpt-realtime",
			Voice:           "cedar",
			InputTokenLimit: 28672,
		},
		Position: PositionConfig{
			Strategy:          "imgWithPosAndHotspot",
			ChangeThresholdPx: 5,
		},
		Pruning: PruningConfig{
			LimitRate:   0.8,
			RemovalRate: 0.3,
		},
	}
}

// Load loads configuration from the CAMIO_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if CAMIO_CONFIG is not set, this
// fails. This ensures deterministic, auditable configuration with no
// hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("CAMIO_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("CAMIO_CONFIG environment variable not set; " +
			"set it to the path of your camio.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The config
// file is the single source of truth; environment variables do not
// override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Assets.Drawing == "" {
		return fmt.Errorf("assets.drawing is required")
	}
	if c.Assets.MaxImageBytes <= 0 {
		return fmt.Errorf("assets.max_image_bytes must be positive, got %d", c.Assets.MaxImageBytes)
	}
	if c.Realtime.CredentialEndpoint == "" {
		return fmt.Errorf("realtime.credential_endpoint is required")
	}
	if c.Realtime.InputTokenLimit <= 0 {
		return fmt.Errorf("realtime.input_token_limit must be positive, got %d", c.Realtime.InputTokenLimit)
	}
	if c.Pruning.LimitRate <= 0 || c.Pruning.LimitRate > 1 {
		return fmt.Errorf("pruning.limit_rate must be in (0, 1], got %g", c.Pruning.LimitRate)
	}
	if c.Pruning.RemovalRate <= 0 || c.Pruning.RemovalRate > 1 {
		return fmt.Errorf("pruning.removal_rate must be in (0, 1], got %g", c.Pruning.RemovalRate)
	}
	switch c.Position.Strategy {
	case "none", "normCoord", "normCoordAndHotspot", "coord",
		"coordAndHotspot", "imgWithPos", "imgWithPosAndHotspot":
	default:
		return fmt.Errorf("position.strategy %q is not a known strategy", c.Position.Strategy)
	}
	return nil
}
