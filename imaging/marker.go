// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// markerRadius is the radius in pixels of the position dot drawn by
// DrawMarker.
const markerRadius = 8

// Grayscale returns a grayscale copy of img.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// DrawMarker returns an RGBA copy of gray with a red dot centered at
// (x, y) in the image's coordinate space. The model is told the dot
// marks the user's pointed position; the rest of the image stays
// grayscale so the dot is unambiguous.
//
// Coordinates outside the image bounds are clamped to the nearest
// edge: pointer sources can drift a few pixels past the template
// while the user sweeps off the drawing, and that should move the dot
// to the border rather than drop the frame.
func DrawMarker(gray *image.Gray, x, y int) *image.RGBA {
	bounds := gray.Bounds()
	x = clamp(x, bounds.Min.X, bounds.Max.X-1)
	y = clamp(y, bounds.Min.Y, bounds.Max.Y-1)

	marked := image.NewRGBA(bounds)
	draw.Draw(marked, bounds, gray, bounds.Min, draw.Src)

	red := color.RGBA{R: 0xff, A: 0xff}
	for dy := -markerRadius; dy <= markerRadius; dy++ {
		for dx := -markerRadius; dx <= markerRadius; dx++ {
			if dx*dx+dy*dy > markerRadius*markerRadius {
				continue
			}
			point := image.Pt(x+dx, y+dy)
			if point.In(bounds) {
				marked.SetRGBA(point.X, point.Y, red)
			}
		}
	}
	return marked
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
