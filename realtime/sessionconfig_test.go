// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewSessionConfig(t *testing.T) {
	cfg := NewSessionConfig("Italian", "gpt-realtime", "cedar")

	if cfg.Model != "gpt-realtime" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if len(cfg.OutputModalities) != 1 || cfg.OutputModalities[0] != "text" {
		t.Errorf("OutputModalities = %v, want text only (audio is opt-in)", cfg.OutputModalities)
	}
	if cfg.Audio.Output.Voice != "cedar" {
		t.Errorf("Voice = %q", cfg.Audio.Output.Voice)
	}
	if cfg.Truncation != "auto" {
		t.Errorf("Truncation = %q", cfg.Truncation)
	}
	if !strings.Contains(cfg.Instructions, "Always respond in Italian") {
		t.Error("instructions do not carry the resolved language")
	}
	if strings.Contains(cfg.Instructions, "{{LANGUAGE}}") {
		t.Error("language placeholder left unresolved")
	}

	names := make([]string, len(cfg.Tools))
	for i, tool := range cfg.Tools {
		names[i] = tool.Name
	}
	if len(names) != 2 || names[0] != "wake_word" || names[1] != "sleep_word" {
		t.Errorf("tools = %v, want wake_word and sleep_word", names)
	}
}

func TestInitialConfigSerializesNullTurnDetection(t *testing.T) {
	// The initial configuration must carry an explicit null so the
	// model keeps turn detection off until assets have landed.
	data, err := json.Marshal(NewSessionConfig("English (US)", "gpt-realtime", "cedar"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"turn_detection":null`) {
		t.Errorf("serialized config missing explicit null turn_detection: %s", data)
	}
}

func TestTurnDetectionUpdate(t *testing.T) {
	cfg := turnDetectionUpdate()
	detection := cfg.Audio.Input.TurnDetection
	if detection == nil {
		t.Fatal("turn detection not set")
	}
	if detection.Type != "server_vad" {
		t.Errorf("Type = %q", detection.Type)
	}
	if detection.CreateResponse {
		t.Error("CreateResponse must stay false: responses are requested explicitly")
	}
	if !detection.InterruptResponse {
		t.Error("InterruptResponse should be true")
	}
	if detection.SilenceDurationMS != 500 {
		t.Errorf("SilenceDurationMS = %d, want 500", detection.SilenceDurationMS)
	}
}

func TestOutputModalityUpdate(t *testing.T) {
	cfg := outputModalityUpdate("audio")
	if len(cfg.OutputModalities) != 1 || cfg.OutputModalities[0] != "audio" {
		t.Errorf("OutputModalities = %v", cfg.OutputModalities)
	}
	if cfg.Audio != nil {
		t.Error("modality update must not resend audio configuration")
	}
}
