// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package asset loads and prepares tactile drawing assets.
//
// Each drawing lives under a name-scoped path (directory or URL) and
// consists of three resources: data.json (metadata, descriptions, and
// hotspots; the language tag defaults to en-US), template.png (the drawing
// itself), and colorMap.png (colored regions identifying hotspots).
// Any fetch failure is fatal to session setup.
//
// [Load] fetches and decodes the three resources. [Prepare] reduces
// both rasters to their transmission-ready encoded form and caches the
// grayscale template used by the image-with-position payloads; if
// either image cannot be brought under the byte budget, Prepare fails
// and the session must not start.
package asset
