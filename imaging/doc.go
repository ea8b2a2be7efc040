// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package imaging prepares drawing rasters for transmission to the
// remote model.
//
// [Encode] implements a monotonic size-reduction ladder: downscale to a
// bounded edge length, transcode to JPEG at default quality, then step
// JPEG quality down from 0.9 until the byte budget is met. If the
// quality floor is reached without satisfying the budget, Encode fails
// with [ErrImageTooLarge] and the caller must abort session setup —
// there is no further fallback. The ladder is deterministic: the same
// source always produces the same bytes.
//
// [Grayscale] and [DrawMarker] support the image-with-position payload:
// a grayscale copy of the drawing template with a red dot at the
// pointed position.
package imaging
