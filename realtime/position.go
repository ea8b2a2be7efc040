// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"errors"
	"fmt"

	"github.com/camio-project/camio/asset"
	"github.com/camio-project/camio/imaging"
)

// ErrResourceMissing reports an attempt to encode position data before
// the session assets were prepared. This is a sequencing bug, treated
// as fatal.
var ErrResourceMissing = errors.New("drawing assets not prepared")

// Strategy selects how the pointed position is encoded for the model.
// Fixed for the lifetime of a session.
type Strategy string

const (
	// StrategyNone sends no position payloads at all.
	StrategyNone Strategy = "none"

	// StrategyNormCoord sends normalized (0..1) coordinates as text.
	StrategyNormCoord Strategy = "normCoord"

	// StrategyNormCoordAndHotspot adds the matched hotspot line.
	StrategyNormCoordAndHotspot Strategy = "normCoordAndHotspot"

	// StrategyCoord sends pixel coordinates plus image dimensions.
	StrategyCoord Strategy = "coord"

	// StrategyCoordAndHotspot adds the matched hotspot line.
	StrategyCoordAndHotspot Strategy = "coordAndHotspot"

	// StrategyImgWithPos sends the grayscale template with a marker
	// drawn at the pointed position.
	StrategyImgWithPos Strategy = "imgWithPos"

	// StrategyImgWithPosAndHotspot adds a trailing hotspot line.
	StrategyImgWithPosAndHotspot Strategy = "imgWithPosAndHotspot"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyNone, StrategyNormCoord, StrategyNormCoordAndHotspot,
		StrategyCoord, StrategyCoordAndHotspot,
		StrategyImgWithPos, StrategyImgWithPosAndHotspot:
		return s, nil
	default:
		return "", fmt.Errorf("unknown position strategy %q", name)
	}
}

// Position is the user's currently indicated pixel location on the
// drawing template. Pointing false means "not pointing anything"; X
// and Y are meaningless in that case.
type Position struct {
	X, Y     int
	Pointing bool
}

// PositionChanged reports whether current differs from last: exactly
// one of the two is not-pointing, or either axis differs by at least
// thresholdPx. Two not-pointing positions never differ.
func PositionChanged(last, current Position, thresholdPx int) bool {
	if last.Pointing != current.Pointing {
		return true
	}
	if !current.Pointing {
		return false
	}
	return abs(current.X-last.X) >= thresholdPx || abs(current.Y-last.Y) >= thresholdPx
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// notPointingText is the fixed payload for every strategy when the
// user is not pointing.
const notPointingText = "The user is not pointing any position."

// positionImageCaption is the text preamble of image-with-position
// items. It doubles as the structural fingerprint used to recognize
// the previously sent position image in conversation.item.done; a
// caption change silently breaks supersession, so it is a single
// constant.
const positionImageCaption = "The user is pointing at the position represented in this image:"

// positionPayload is one encoded pointed-position message.
type positionPayload struct {
	parts []contentPart

	// variant names the payload shape for logging.
	variant string

	// withImage marks payloads carrying a position image, which
	// supersede the previously sent one.
	withImage bool

	// hotspot is the resolved hotspot label for logging, empty when
	// absent or not applicable.
	hotspot string
}

// PositionEncoder builds pointed-position payloads for a session's
// configured strategy against its prepared drawing.
type PositionEncoder struct {
	strategy Strategy
	assets   *asset.Prepared

	// maxImageBytes bounds the encoded position image, same ceiling
	// as the setup assets.
	maxImageBytes int
}

// NewPositionEncoder creates an encoder. assets may be nil only for
// StrategyNone.
func NewPositionEncoder(strategy Strategy, assets *asset.Prepared, maxImageBytes int) *PositionEncoder {
	return &PositionEncoder{strategy: strategy, assets: assets, maxImageBytes: maxImageBytes}
}

// Encode produces the payload for the given position and hotspot label
// (empty string means no hotspot matched). Returns nil for
// StrategyNone. A nil hotspot state is valid data, never an error.
func (e *PositionEncoder) Encode(position Position, hotspot string) (*positionPayload, error) {
	if e.strategy == StrategyNone {
		return nil, nil
	}

	if !position.Pointing {
		return &positionPayload{
			parts:   []contentPart{textPart(notPointingText)},
			variant: "notPointing",
		}, nil
	}

	if e.assets == nil {
		return nil, ErrResourceMissing
	}
	width, height := e.assets.Width, e.assets.Height

	normCoordText := fmt.Sprintf(
		"The user is pointing at the following coordinates:\n(x: %.3f, y: %.3f)",
		float64(position.X)/float64(width), float64(position.Y)/float64(height))

	coordText := fmt.Sprintf(
		"The user is pointing at the following coordinates (in pixels):\n(x: %d px, y: %d px)",
		position.X, position.Y)

	dimensionsText := fmt.Sprintf(
		"The drawing template and the color map have the following dimensions:\n%dx%d px",
		width, height)

	coordHotspotText := "They do not correspond to any known hotspot"
	imageHotspotText := "It does not correspond to any known hotspot"
	if hotspot != "" {
		coordHotspotText = "They correspond to this hotspot: " + hotspot
		imageHotspotText = "It corresponds to this hotspot: " + hotspot
	}

	switch e.strategy {
	case StrategyNormCoord:
		return &positionPayload{
			parts:   []contentPart{textPart(normCoordText)},
			variant: "normCoord",
		}, nil

	case StrategyNormCoordAndHotspot:
		return &positionPayload{
			parts:   []contentPart{textPart(normCoordText + "\n" + coordHotspotText)},
			variant: "normCoordAndHotspot",
			hotspot: hotspot,
		}, nil

	case StrategyCoord:
		return &positionPayload{
			parts:   []contentPart{textPart(coordText + "\n" + dimensionsText)},
			variant: "coord",
		}, nil

	case StrategyCoordAndHotspot:
		return &positionPayload{
			parts:   []contentPart{textPart(coordText + "\n" + coordHotspotText + "\n" + dimensionsText)},
			variant: "coordAndHotspot",
			hotspot: hotspot,
		}, nil

	case StrategyImgWithPos:
		image, err := e.positionImage(position)
		if err != nil {
			return nil, err
		}
		return &positionPayload{
			parts:     []contentPart{textPart(positionImageCaption), imagePart(image)},
			variant:   "imgWithPos",
			withImage: true,
		}, nil

	case StrategyImgWithPosAndHotspot:
		image, err := e.positionImage(position)
		if err != nil {
			return nil, err
		}
		return &positionPayload{
			parts:     []contentPart{textPart(positionImageCaption), imagePart(image), textPart(imageHotspotText)},
			variant:   "imgWithPosAndHotspot",
			withImage: true,
			hotspot:   hotspot,
		}, nil

	default:
		return nil, fmt.Errorf("unknown position strategy %q", e.strategy)
	}
}

// positionImage renders the grayscale template with a marker at the
// pointed position and encodes it under the image byte budget.
func (e *PositionEncoder) positionImage(position Position) (string, error) {
	if e.assets.GrayTemplate == nil {
		return "", ErrResourceMissing
	}
	marked := imaging.DrawMarker(e.assets.GrayTemplate, position.X, position.Y)
	encoded, err := imaging.Encode(marked, e.maxImageBytes)
	if err != nil {
		return "", fmt.Errorf("encoding position image: %w", err)
	}
	return encoded.DataURL(), nil
}
