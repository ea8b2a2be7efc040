// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

// flatImage returns a single-color image, which compresses to almost
// nothing in PNG.
func flatImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

// noiseImage returns a deterministic pseudo-noise image, which
// compresses poorly in every codec.
func noiseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*31 + y*17) % 256),
				G: uint8((x*7 + y*113) % 256),
				B: uint8((x*193 + y*53) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestEncodeSmallImageStaysLossless(t *testing.T) {
	encoded, err := Encode(flatImage(64, 48), 220*1024)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", encoded.MIME)
	}
	if encoded.Width != 64 || encoded.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", encoded.Width, encoded.Height)
	}
	if len(encoded.Data) == 0 || len(encoded.Data) > 220*1024 {
		t.Errorf("data size %d outside (0, budget]", len(encoded.Data))
	}
}

func TestEncodeDownscalesLongEdge(t *testing.T) {
	encoded, err := Encode(flatImage(3000, 1500), 220*1024)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded.Width != 1024 {
		t.Errorf("width = %d, want 1024", encoded.Width)
	}
	if encoded.Height != 512 {
		t.Errorf("height = %d, want 512", encoded.Height)
	}

	// Portrait orientation bounds the other edge.
	encoded, err = Encode(flatImage(1500, 3000), 220*1024)
	if err != nil {
		t.Fatalf("Encode portrait: %v", err)
	}
	if encoded.Width != 512 || encoded.Height != 1024 {
		t.Errorf("portrait dimensions = %dx%d, want 512x1024", encoded.Width, encoded.Height)
	}
}

func TestEncodeFallsBackToJPEGUnderBudget(t *testing.T) {
	// 128x128 noise is ~60 KB as PNG; the ladder has to reach JPEG.
	budget := 8 * 1024
	encoded, err := Encode(noiseImage(128, 128), budget)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", encoded.MIME)
	}
	if len(encoded.Data) > budget {
		t.Errorf("data size %d exceeds budget %d", len(encoded.Data), budget)
	}
}

func TestEncodeBudgetMonotonicity(t *testing.T) {
	// A tighter budget never yields a larger payload.
	img := noiseImage(128, 128)
	loose, err := Encode(img, 16*1024)
	if err != nil {
		t.Fatalf("Encode loose: %v", err)
	}
	tight, err := Encode(img, 4*1024)
	if err != nil {
		t.Fatalf("Encode tight: %v", err)
	}
	if len(tight.Data) > len(loose.Data) {
		t.Errorf("tight budget produced %d bytes > loose budget's %d", len(tight.Data), len(loose.Data))
	}
}

func TestEncodeExhaustedLadder(t *testing.T) {
	_, err := Encode(noiseImage(64, 64), 100)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("Encode error = %v, want ErrImageTooLarge", err)
	}
}

func TestEncodeRejectsNonPositiveBudget(t *testing.T) {
	if _, err := Encode(flatImage(8, 8), 0); err == nil {
		t.Fatal("Encode accepted a zero byte budget")
	}
}

func TestDataURL(t *testing.T) {
	encoded, err := Encode(flatImage(8, 8), 220*1024)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	url := encoded.DataURL()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("DataURL = %q, want data:image/png;base64, prefix", url[:32])
	}
	if strings.ContainsAny(url, "\n ") {
		t.Error("DataURL contains whitespace")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := Encode(noiseImage(96, 96), 8*1024)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(noiseImage(96, 96), 8*1024)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("same source and budget produced different payloads")
	}
	if first.Quality != second.Quality {
		t.Errorf("quality differs between runs: %d vs %d", first.Quality, second.Quality)
	}
}
