// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buffer.Bytes()
}

// writeDrawing lays out a drawing directory under base and returns the
// files by name for HTTP serving.
func writeDrawing(t *testing.T, base, name, data string) map[string][]byte {
	t.Helper()
	files := map[string][]byte{
		"data.json":    []byte(data),
		"template.png": encodePNG(t, 64, 48),
		"colorMap.png": encodePNG(t, 64, 48),
	}
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating drawing dir: %v", err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), content, 0o644); err != nil {
			t.Fatalf("writing %s: %v", file, err)
		}
	}
	return files
}

func TestLoadFromDirectory(t *testing.T) {
	base := t.TempDir()
	writeDrawing(t, base, "Islet2", `{"metadata":{"lang":"it-IT"},"hotspots":[]}`)

	drawing, err := Load(context.Background(), base, "Islet2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if drawing.Name != "Islet2" {
		t.Errorf("Name = %q, want Islet2", drawing.Name)
	}
	if drawing.Language != "it-IT" {
		t.Errorf("Language = %q, want it-IT", drawing.Language)
	}
	if got := drawing.Template.Bounds(); got.Dx() != 64 || got.Dy() != 48 {
		t.Errorf("template bounds = %v, want 64x48", got)
	}
	// data.json passes through verbatim.
	if string(drawing.Data) != `{"metadata":{"lang":"it-IT"},"hotspots":[]}` {
		t.Errorf("Data altered: %s", drawing.Data)
	}
}

func TestLoadDefaultsLanguage(t *testing.T) {
	base := t.TempDir()
	writeDrawing(t, base, "Plain", `{"hotspots":[]}`)

	drawing, err := Load(context.Background(), base, "Plain")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if drawing.Language != "en-US" {
		t.Errorf("Language = %q, want en-US default", drawing.Language)
	}
}

func TestLoadMissingResource(t *testing.T) {
	base := t.TempDir()
	writeDrawing(t, base, "Broken", `{}`)
	if err := os.Remove(filepath.Join(base, "Broken", "colorMap.png")); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(context.Background(), base, "Broken"); err == nil {
		t.Fatal("Load succeeded without a color map")
	}
}

func TestLoadOverHTTP(t *testing.T) {
	base := t.TempDir()
	files := writeDrawing(t, base, "Remote", `{"metadata":{"lang":"fr-FR"}}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, ok := files[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(content)
	}))
	defer server.Close()

	drawing, err := Load(context.Background(), server.URL, "Remote")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if drawing.Language != "fr-FR" {
		t.Errorf("Language = %q, want fr-FR", drawing.Language)
	}
}

func TestPrepare(t *testing.T) {
	base := t.TempDir()
	writeDrawing(t, base, "Islet2", `{"metadata":{"lang":"en-US"}}`)
	drawing, err := Load(context.Background(), base, "Islet2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	prepared, err := Prepare(drawing, 220*1024)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if prepared.Width != 64 || prepared.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", prepared.Width, prepared.Height)
	}
	if len(prepared.Template.Data) == 0 || len(prepared.ColorMap.Data) == 0 {
		t.Error("encoded rasters are empty")
	}
	// The grayscale cache matches the transmitted resolution, so
	// marker coordinates line up with what the model sees.
	if got := prepared.GrayTemplate.Bounds(); got.Dx() != prepared.Width || got.Dy() != prepared.Height {
		t.Errorf("grayscale bounds = %v, want %dx%d", got, prepared.Width, prepared.Height)
	}
}

func TestPrepareOverBudget(t *testing.T) {
	base := t.TempDir()
	writeDrawing(t, base, "Huge", `{}`)
	drawing, err := Load(context.Background(), base, "Huge")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := Prepare(drawing, 50); err == nil {
		t.Fatal("Prepare succeeded with an unattainable byte budget")
	}
}

func TestDisplayLanguage(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"en-US", "English (US)"},
		{"it-IT", "Italian"},
		{"ja-JP", "Japanese"},
		{"xx-XX", "English (US)"},
		{"", "English (US)"},
	}
	for _, test := range tests {
		if got := DisplayLanguage(test.tag); got != test.want {
			t.Errorf("DisplayLanguage(%q) = %q, want %q", test.tag, got, test.want)
		}
	}
}
