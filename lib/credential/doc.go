// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential provides short-lived bearer keys for the realtime
// session.
//
// The remote model's SDP exchange is authenticated with an ephemeral
// key minted by a backend endpoint (never a long-lived API key in the
// client). [Provider] abstracts that endpoint; [HTTPProvider] is the
// production implementation and [ProviderFunc] adapts a plain function
// for tests.
//
// A provider that has already reported its own failure to the user may
// return an empty key with a nil error; the session treats that as
// "cannot start, nothing further to report" and aborts quietly.
package credential
