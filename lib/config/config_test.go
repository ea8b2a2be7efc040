// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camio.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
assets:
  base: /srv/drawings
  drawing: Islet2
realtime:
  credential_endpoint: https://example.com/key
`

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Assets.Drawing != "Islet2" {
		t.Errorf("Assets.Drawing = %q, want Islet2", cfg.Assets.Drawing)
	}
	// Unset fields keep their defaults.
	if cfg.Assets.MaxImageBytes != 220*1024 {
		t.Errorf("Assets.MaxImageBytes = %d, want 220 KB default", cfg.Assets.MaxImageBytes)
	}
	if cfg.Realtime.Model != "gpt-realtime" {
		t.Errorf("Realtime.Model = %q, want gpt-realtime default", cfg.Realtime.Model)
	}
	if cfg.Realtime.InputTokenLimit != 28672 {
		t.Errorf("Realtime.InputTokenLimit = %d, want 28672 default", cfg.Realtime.InputTokenLimit)
	}
	if cfg.Position.Strategy != "imgWithPosAndHotspot" {
		t.Errorf("Position.Strategy = %q, want default", cfg.Position.Strategy)
	}
	if cfg.Pruning.LimitRate != 0.8 || cfg.Pruning.RemovalRate != 0.3 {
		t.Errorf("Pruning = %+v, want default rates", cfg.Pruning)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, validConfig+`
position:
  strategy: coord
  change_threshold_px: 10
pruning:
  limit_rate: 0.5
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Position.Strategy != "coord" {
		t.Errorf("Position.Strategy = %q, want coord", cfg.Position.Strategy)
	}
	if cfg.Position.ChangeThresholdPx != 10 {
		t.Errorf("ChangeThresholdPx = %d, want 10", cfg.Position.ChangeThresholdPx)
	}
	if cfg.Pruning.LimitRate != 0.5 {
		t.Errorf("LimitRate = %g, want 0.5", cfg.Pruning.LimitRate)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile succeeded on a missing file")
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("CAMIO_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without CAMIO_CONFIG")
	}
}

func TestLoadFromEnvVar(t *testing.T) {
	t.Setenv("CAMIO_CONFIG", writeConfig(t, validConfig))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assets.Drawing != "Islet2" {
		t.Errorf("Assets.Drawing = %q, want Islet2", cfg.Assets.Drawing)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing drawing",
			mutate:  func(c *Config) { c.Assets.Drawing = "" },
			wantErr: "assets.drawing",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Position.Strategy = "telepathy" },
			wantErr: "position.strategy",
		},
		{
			name:    "zero token limit",
			mutate:  func(c *Config) { c.Realtime.InputTokenLimit = 0 },
			wantErr: "input_token_limit",
		},
		{
			name:    "limit rate above one",
			mutate:  func(c *Config) { c.Pruning.LimitRate = 1.5 },
			wantErr: "limit_rate",
		},
		{
			name:    "zero removal rate",
			mutate:  func(c *Config) { c.Pruning.RemovalRate = 0 },
			wantErr: "removal_rate",
		},
		{
			name:    "zero image budget",
			mutate:  func(c *Config) { c.Assets.MaxImageBytes = 0 },
			wantErr: "max_image_bytes",
		},
		{
			name:    "missing credential endpoint",
			mutate:  func(c *Config) { c.Realtime.CredentialEndpoint = "" },
			wantErr: "credential_endpoint",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.Assets.Drawing = "Islet2"
			cfg.Realtime.CredentialEndpoint = "https://example.com/key"
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not mention %q", err, test.wantErr)
			}
		})
	}
}
