// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

// reservedItemCount is the number of conversation items at the head of
// the tracked sequence that are never evicted: the drawing data, the
// template image, and the color map image.
const reservedItemCount = 3

// Conversation tracks the identifiers the remote model assigns to
// items the session injects into the shared conversation. Insertion
// order equals remote arrival order (conversation.item.added events).
//
// Only the session's event loop touches a Conversation, so no locking
// is needed; but identifiers can be both added and evicted between two
// suspension points of a caller, so callers must re-check with Remove
// before acting on a stored identifier.
type Conversation struct {
	// tokenLimit is the model's input context-size limit.
	tokenLimit int

	// limitRate is the fraction of tokenLimit at which eviction
	// triggers.
	limitRate float64

	// removalRate is the fraction of tracked items evicted per pass.
	removalRate float64

	items []string

	// positionItemID is the identifier of the most recent
	// image-with-position item, recognized by its caption fingerprint
	// on conversation.item.done. At most one such item is outstanding.
	positionItemID string
}

// NewConversation creates a tracker with the given token budget and
// eviction rates.
func NewConversation(tokenLimit int, limitRate, removalRate float64) *Conversation {
	return &Conversation{
		tokenLimit:  tokenLimit,
		limitRate:   limitRate,
		removalRate: removalRate,
	}
}

// Track appends an item identifier reported by the remote model.
// Empty identifiers are ignored.
func (c *Conversation) Track(itemID string) {
	if itemID == "" {
		return
	}
	c.items = append(c.items, itemID)
}

// Len returns the number of tracked items.
func (c *Conversation) Len() int { return len(c.items) }

// Remove drops an identifier from the tracked sequence. Returns false
// when the identifier is not tracked (already evicted or never added),
// in which case the caller must not issue a remote deletion.
func (c *Conversation) Remove(itemID string) bool {
	for i, id := range c.items {
		if id == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if c.positionItemID == itemID {
				c.positionItemID = ""
			}
			return true
		}
	}
	return false
}

// EvictionBatch decides whether the reported input-token usage calls
// for pruning. When inputTokens crosses tokenLimit x limitRate, it
// removes floor(trackedCount x removalRate) items from the tracked
// sequence, oldest-first, starting after the reserved head items, and
// returns their identifiers for remote deletion. The reserved items
// are never included, even when the computed count would reach them.
//
// Returns nil when usage is under the threshold or nothing is
// evictable.
func (c *Conversation) EvictionBatch(inputTokens int) []string {
	if inputTokens < int(float64(c.tokenLimit)*c.limitRate) {
		return nil
	}
	if len(c.items) <= reservedItemCount {
		return nil
	}

	count := int(float64(len(c.items)) * c.removalRate)
	if max := len(c.items) - reservedItemCount; count > max {
		count = max
	}
	if count <= 0 {
		return nil
	}

	evicted := make([]string, count)
	copy(evicted, c.items[reservedItemCount:reservedItemCount+count])
	c.items = append(c.items[:reservedItemCount], c.items[reservedItemCount+count:]...)
	for _, id := range evicted {
		if c.positionItemID == id {
			c.positionItemID = ""
			break
		}
	}
	return evicted
}

// MarkPositionItem records the identifier of the latest
// image-with-position item.
func (c *Conversation) MarkPositionItem(itemID string) {
	c.positionItemID = itemID
}

// PositionItem returns the identifier of the outstanding
// image-with-position item, or empty when none exists.
func (c *Conversation) PositionItem() string { return c.positionItemID }
