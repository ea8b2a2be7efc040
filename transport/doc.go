// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport owns the realtime media and data session with the
// remote model.
//
// [Transport] wraps a pion/webrtc PeerConnection carrying one outbound
// microphone audio track, inbound model audio, and a single ordered,
// reliable data channel over which all protocol traffic flows. The
// session layer drives it through a fixed sequence: Connect, attach
// audio, OpenMessageChannel, Negotiate. Any failure in that sequence is
// fatal to session setup.
//
// Microphone capture and playback are abstracted behind [AudioSource]
// and [AudioSink] so the package stays free of platform audio
// dependencies; [OggFileSource] and [OggFileSink] provide file-backed
// implementations for scripted and headless runs. Asynchronous
// faults (data channel errors, playback failures, the connection
// dropping) are funneled through a single error callback registered
// with [Transport.OnAsyncError] — the session treats them all as fatal
// and tears down.
//
// Negotiation follows the vanilla ICE pattern: all candidates are
// gathered before the SDP offer is POSTed to the signaling endpoint,
// so the exchange is a single authenticated round-trip.
package transport
