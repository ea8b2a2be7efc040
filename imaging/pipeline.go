// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// ErrImageTooLarge reports that the compression ladder was exhausted
// without meeting the byte budget. It is fatal to session setup.
var ErrImageTooLarge = errors.New("image exceeds transmission budget at minimum quality")

// maxEdgePixels is the bound applied by the downscale stage. Larger
// images are scaled so their longest edge equals this.
const maxEdgePixels = 1024

// defaultJPEGQuality is the stage-two transcode quality, matching the
// codec default used before the explicit quality ladder starts.
const defaultJPEGQuality = 75

// qualityLadder is the stage-three quality sequence, in percent.
// Monotonically non-increasing; encoding halts at the first entry that
// satisfies the budget.
var qualityLadder = []int{90, 80, 70, 60, 50, 40, 30, 20, 10, 0}

// Encoded is a transmission-ready image: the compressed bytes plus the
// pixel dimensions the position encoder normalizes against.
type Encoded struct {
	// Data is the compressed image payload.
	Data []byte

	// MIME is the payload media type ("image/png" or "image/jpeg").
	MIME string

	// Width and Height are the pixel dimensions of the encoded image.
	Width  int
	Height int

	// Quality is the JPEG quality percent that satisfied the budget,
	// or 0 when the payload is the lossless stage-one PNG.
	Quality int
}

// DataURL returns the payload as a base64 data URL, the form carried
// in input_image content parts.
func (e Encoded) DataURL() string {
	return "data:" + e.MIME + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// Encode produces a representation of img no larger than maxBytes, or
// fails with an error wrapping [ErrImageTooLarge]. The ladder:
//
//  1. Downscale so the longest edge is at most maxEdgePixels, re-encode
//     as PNG, and accept if within budget.
//  2. Transcode to JPEG at default quality; accept if within budget.
//  3. Step JPEG quality down 90, 80, … 0, accepting the first encoding
//     within budget.
func Encode(img image.Image, maxBytes int) (Encoded, error) {
	if maxBytes <= 0 {
		return Encoded{}, fmt.Errorf("non-positive byte budget %d", maxBytes)
	}

	scaled := downscale(img, maxEdgePixels)
	bounds := scaled.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, scaled); err != nil {
		return Encoded{}, fmt.Errorf("encoding PNG: %w", err)
	}
	if buffer.Len() <= maxBytes {
		return Encoded{Data: append([]byte(nil), buffer.Bytes()...), MIME: "image/png", Width: width, Height: height}, nil
	}

	attempt := func(quality int) ([]byte, error) {
		buffer.Reset()
		// jpeg.Encode rejects quality 0; the ladder floor maps to the
		// codec's minimum.
		encodeQuality := quality
		if encodeQuality < 1 {
			encodeQuality = 1
		}
		if err := jpeg.Encode(&buffer, scaled, &jpeg.Options{Quality: encodeQuality}); err != nil {
			return nil, fmt.Errorf("encoding JPEG at quality %d: %w", quality, err)
		}
		if buffer.Len() <= maxBytes {
			return append([]byte(nil), buffer.Bytes()...), nil
		}
		return nil, nil
	}

	if data, err := attempt(defaultJPEGQuality); err != nil {
		return Encoded{}, err
	} else if data != nil {
		return Encoded{Data: data, MIME: "image/jpeg", Width: width, Height: height, Quality: defaultJPEGQuality}, nil
	}

	for _, quality := range qualityLadder {
		data, err := attempt(quality)
		if err != nil {
			return Encoded{}, err
		}
		if data != nil {
			return Encoded{Data: data, MIME: "image/jpeg", Width: width, Height: height, Quality: quality}, nil
		}
	}

	return Encoded{}, fmt.Errorf("%w: %dx%d source, %d byte budget", ErrImageTooLarge, width, height, maxBytes)
}

// downscale returns img scaled so its longest edge is at most maxEdge.
// Images already within the bound are returned unchanged. ApproxBiLinear
// keeps the operation deterministic and cheap; this feeds a lossy model
// input, not a display surface.
func downscale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxEdge && height <= maxEdge {
		return img
	}

	scaledWidth, scaledHeight := width, height
	if width >= height {
		scaledWidth = maxEdge
		scaledHeight = height * maxEdge / width
	} else {
		scaledHeight = maxEdge
		scaledWidth = width * maxEdge / height
	}
	if scaledWidth < 1 {
		scaledWidth = 1
	}
	if scaledHeight < 1 {
		scaledHeight = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledWidth, scaledHeight))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}
