// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"
)

// Sentinel errors for the transport setup sequence. The session layer
// classifies failures with errors.Is.
var (
	// ErrDevice reports that microphone capture could not be opened
	// (permission denied or no device). Fatal to session setup.
	ErrDevice = errors.New("audio device unavailable")

	// ErrChannel reports a data channel fault: opening a channel
	// before the peer connection exists, or sending on a channel that
	// is not open.
	ErrChannel = errors.New("message channel unavailable")

	// ErrNegotiation reports a failed SDP offer/answer exchange with
	// the signaling endpoint.
	ErrNegotiation = errors.New("session negotiation failed")

	// ErrClosed reports an operation on a transport that has been
	// torn down.
	ErrClosed = errors.New("transport closed")
)

// Transport owns one realtime peer connection: the microphone track,
// the remote audio sink, and the protocol message channel. All methods
// are safe for concurrent use. Close is idempotent and callable from
// any state.
type Transport struct {
	logger *slog.Logger

	mu         sync.Mutex
	connection *webrtc.PeerConnection
	channel    *MessageChannel
	source     AudioSource
	sink       AudioSink
	closed     bool

	// asyncError receives channel errors, playback errors, and
	// connection-state failures. Set via OnAsyncError before Connect.
	asyncError func(error)

	// sourceDone is closed when the microphone pump goroutine exits.
	sourceDone chan struct{}
}

// New creates a Transport. Call Connect before any other operation.
func New(logger *slog.Logger) *Transport {
	return &Transport{
		logger:     logger,
		asyncError: func(error) {},
	}
}

// OnAsyncError registers the callback invoked for faults reported
// outside a method call: data channel errors, playback errors, and the
// peer connection entering a failed state. Must be called before
// Connect. The callback may be invoked from pion's goroutines and must
// not block.
func (t *Transport) OnAsyncError(callback func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.asyncError = callback
}

// Connect allocates the peer connection. Must succeed before any other
// transport operation.
func (t *Transport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.connection != nil {
		return fmt.Errorf("transport already connected")
	}

	connection, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return fmt.Errorf("creating peer connection: %w", err)
	}

	connection.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		t.logger.Debug("peer connection state changed", "state", state.String())
		if state == webrtc.PeerConnectionStateFailed {
			t.reportAsync(fmt.Errorf("peer connection failed"))
		}
	})

	t.connection = connection
	return nil
}

// reportAsync forwards err to the registered async error callback,
// unless the transport has already been closed (late callbacks from
// abandoned work are tolerated as no-ops).
func (t *Transport) reportAsync(err error) {
	t.mu.Lock()
	callback := t.asyncError
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	callback(err)
}

// peerConnection returns the live connection, or nil if Connect has
// not succeeded or Close has run.
func (t *Transport) peerConnection() *webrtc.PeerConnection {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	return t.connection
}

// Close releases the channel, tracks, connection, and playback sink.
// Safe to call multiple times and from any state.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	connection := t.connection
	channel := t.channel
	source := t.source
	sink := t.sink
	sourceDone := t.sourceDone
	t.connection = nil
	t.channel = nil
	t.source = nil
	t.sink = nil
	t.mu.Unlock()

	var errs []error
	if channel != nil {
		if err := channel.close(); err != nil {
			errs = append(errs, fmt.Errorf("closing message channel: %w", err))
		}
	}
	if source != nil {
		if err := source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing audio source: %w", err))
		}
	}
	if connection != nil {
		if err := connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing peer connection: %w", err))
		}
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing audio sink: %w", err))
		}
	}
	if sourceDone != nil {
		<-sourceDone
	}

	t.logger.Info("transport closed")
	return errors.Join(errs...)
}
