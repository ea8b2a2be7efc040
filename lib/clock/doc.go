// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now
// or time.Since directly. In production, Real() provides standard
// library behavior. In tests, Fake() provides a deterministic clock
// that advances only when Advance is called, which makes latency
// measurements (the session response timer, the benchmark average)
// reproducible.
package clock
