// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this instead of time.Now() when
// tests need unique identifiers for conversation item IDs or event IDs
// that must be distinguishable within one test.
//
//	itemID := testutil.UniqueID("item")      // "item-1", "item-2", ...
//	eventID := testutil.UniqueID("event")    // "event-3", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
