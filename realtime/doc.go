// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package realtime implements the session orchestrator for the CamIO
// assistant: the protocol state machine that drives one end-to-end
// conversation between a user exploring a tactile drawing and the
// remote multimodal model.
//
// [Session] owns the media transport for its lifetime. Start walks the
// fail-fast setup sequence (credential, peer connection, audio, message
// channel, SDP negotiation); after that all work is driven by inbound
// protocol events processed on a single event-loop goroutine, matching
// the protocol's ordering guarantees without locks around conversation
// state. Stop tears everything down idempotently; late callbacks from
// abandoned asynchronous work are tolerated as no-ops.
//
// Inbound messages form a closed tagged union keyed by "type"
// ([serverEvent]), parsed defensively and dispatched through an
// explicit handler table. Unknown types are ignored; missing required
// fields are protocol errors.
//
// [PositionEncoder] turns the user's pointed position into one of six
// payload shapes selected by a per-session [Strategy]. [Conversation]
// tracks remote item identifiers and evicts the oldest evictable items
// when reported input-token usage crosses the configured threshold.
// [Benchmark] (test mode) replays scripted questions and reports mean
// response latency.
package realtime
