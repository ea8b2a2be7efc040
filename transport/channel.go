// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
)

// MessageChannel is the single ordered, reliable, bidirectional channel
// carrying all protocol traffic. Messages are JSON documents; the
// channel moves opaque byte strings and leaves parsing to the session.
type MessageChannel struct {
	mu      sync.Mutex
	channel *webrtc.DataChannel
	open    bool
}

// OpenMessageChannel opens the protocol channel with the given label.
// Fails with an error wrapping [ErrChannel] if the peer connection is
// not yet established. The channel becomes usable once the onOpen
// callback fires (after negotiation completes).
func (t *Transport) OpenMessageChannel(name string) (*MessageChannel, error) {
	connection := t.peerConnection()
	if connection == nil {
		return nil, fmt.Errorf("%w: no peer connection", ErrChannel)
	}

	// nil init: pion defaults are ordered and reliable, which is what
	// the protocol requires.
	dataChannel, err := connection.CreateDataChannel(name, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %q: %v", ErrChannel, name, err)
	}

	channel := &MessageChannel{channel: dataChannel}

	dataChannel.OnOpen(func() {
		channel.mu.Lock()
		channel.open = true
		channel.mu.Unlock()
		t.logger.Info("message channel open", "label", name)
	})
	dataChannel.OnClose(func() {
		channel.mu.Lock()
		channel.open = false
		channel.mu.Unlock()
		t.logger.Debug("message channel closed", "label", name)
	})
	dataChannel.OnError(func(err error) {
		t.reportAsync(fmt.Errorf("%w: %v", ErrChannel, err))
	})

	t.mu.Lock()
	t.channel = channel
	t.mu.Unlock()
	return channel, nil
}

// OnMessage registers the callback for inbound protocol messages. The
// callback runs on pion's read goroutine; the session forwards into
// its own event loop rather than doing work inline.
func (c *MessageChannel) OnMessage(callback func(data []byte)) {
	c.channel.OnMessage(func(message webrtc.DataChannelMessage) {
		callback(message.Data)
	})
}

// Send transmits one protocol message. Fails with an error wrapping
// [ErrChannel] if the channel is not open.
func (c *MessageChannel) Send(data []byte) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return fmt.Errorf("%w: channel not open", ErrChannel)
	}
	// The protocol is line-oriented JSON text.
	return c.channel.SendText(string(data))
}

// close tears down the underlying data channel. Called by
// Transport.Close; idempotent via the data channel's own state.
func (c *MessageChannel) close() error {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	return c.channel.Close()
}
