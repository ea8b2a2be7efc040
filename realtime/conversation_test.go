// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"fmt"
	"testing"
)

// trackN appends n item identifiers "i-0" … "i-<n-1>".
func trackN(c *Conversation, n int) {
	for i := 0; i < n; i++ {
		c.Track(fmt.Sprintf("i-%d", i))
	}
}

func TestConversationTracking(t *testing.T) {
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 3)
	c.Track("")
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3 (empty ids ignored)", c.Len())
	}

	if !c.Remove("i-1") {
		t.Error("Remove failed on a tracked id")
	}
	if c.Remove("i-1") {
		t.Error("Remove succeeded twice on the same id")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d after removal, want 2", c.Len())
	}
}

func TestEvictionBelowThreshold(t *testing.T) {
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 10)
	if got := c.EvictionBatch(799); got != nil {
		t.Errorf("EvictionBatch(799) = %v, want nil below threshold", got)
	}
	if c.Len() != 10 {
		t.Errorf("Len changed to %d", c.Len())
	}
}

func TestEvictionAtThreshold(t *testing.T) {
	// 10 tracked items at 80% of the 1000-token limit: evict
	// floor(10 x 0.3) = 3 oldest non-reserved items.
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 10)

	evicted := c.EvictionBatch(800)
	want := []string{"i-3", "i-4", "i-5"}
	if len(evicted) != len(want) {
		t.Fatalf("evicted %v, want %v", evicted, want)
	}
	for i := range want {
		if evicted[i] != want[i] {
			t.Fatalf("evicted %v, want %v", evicted, want)
		}
	}
	if c.Len() != 7 {
		t.Errorf("Len = %d after eviction, want 7", c.Len())
	}

	// The reserved head survives.
	for _, reserved := range []string{"i-0", "i-1", "i-2"} {
		if !c.Remove(reserved) {
			t.Errorf("reserved item %s was evicted", reserved)
		}
	}
}

func TestEvictionNeverTouchesReserved(t *testing.T) {
	// An aggressive removal rate is capped at the non-reserved count.
	c := NewConversation(1000, 0.8, 0.9)
	trackN(c, 4)

	evicted := c.EvictionBatch(1000)
	if len(evicted) != 1 || evicted[0] != "i-3" {
		t.Fatalf("evicted %v, want [i-3]", evicted)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want the 3 reserved items", c.Len())
	}
}

func TestEvictionWithOnlyReservedItems(t *testing.T) {
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 3)
	if got := c.EvictionBatch(1000); got != nil {
		t.Errorf("EvictionBatch = %v, want nil with only reserved items", got)
	}
}

func TestEvictionRoundsDown(t *testing.T) {
	// floor(5 x 0.3) = 1.
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 5)
	evicted := c.EvictionBatch(900)
	if len(evicted) != 1 || evicted[0] != "i-3" {
		t.Errorf("evicted %v, want [i-3]", evicted)
	}
}

func TestPositionItemTracking(t *testing.T) {
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 5)

	c.MarkPositionItem("i-4")
	if got := c.PositionItem(); got != "i-4" {
		t.Errorf("PositionItem = %q, want i-4", got)
	}

	// Removing the item clears the marker so supersession never
	// targets a dead identifier.
	c.Remove("i-4")
	if got := c.PositionItem(); got != "" {
		t.Errorf("PositionItem = %q after removal, want empty", got)
	}
}

func TestEvictionClearsPositionItem(t *testing.T) {
	c := NewConversation(1000, 0.8, 0.3)
	trackN(c, 10)
	c.MarkPositionItem("i-4")

	c.EvictionBatch(800) // evicts i-3, i-4, i-5
	if got := c.PositionItem(); got != "" {
		t.Errorf("PositionItem = %q after eviction, want empty", got)
	}
}
