// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	gray := Grayscale(src)
	if gray.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", gray.Bounds(), src.Bounds())
	}
	// Pure red maps to the standard luma weight for red.
	if got := gray.GrayAt(0, 0).Y; got == 0 || got == 255 {
		t.Errorf("red pixel gray value = %d, want mid-range luma", got)
	}
}

func TestDrawMarker(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			gray.SetGray(x, y, color.Gray{Y: 128})
		}
	}

	marked := DrawMarker(gray, 32, 32)

	center := marked.RGBAAt(32, 32)
	if center.R != 255 || center.G != 0 || center.B != 0 {
		t.Errorf("center pixel = %v, want pure red", center)
	}
	// Outside the dot radius the grayscale survives.
	corner := marked.RGBAAt(0, 0)
	if corner.R != 128 || corner.G != 128 || corner.B != 128 {
		t.Errorf("corner pixel = %v, want untouched gray", corner)
	}
}

func TestDrawMarkerNearEdgeClips(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 16, 16))
	marked := DrawMarker(gray, 0, 0)
	if got := marked.RGBAAt(0, 0); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("corner pixel = %v, want pure red", got)
	}
}

func TestDrawMarkerClampsOutOfBounds(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 16, 16))

	// A pointer drifting past the template edge pins the dot to the
	// nearest border pixel.
	marked := DrawMarker(gray, 20, 8)
	if got := marked.RGBAAt(15, 8); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("right-edge pixel = %v, want pure red", got)
	}

	marked = DrawMarker(gray, -5, -5)
	if got := marked.RGBAAt(0, 0); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("origin pixel = %v, want pure red", got)
	}
}
