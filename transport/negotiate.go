// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
)

// iceGatherTimeout bounds local ICE candidate gathering. This is a
// purely local operation; the remote exchange itself carries no
// timeout (a hung remote is recovered via Close).
const iceGatherTimeout = 15 * time.Second

// Negotiate performs the SDP offer/answer exchange with the signaling
// endpoint. The complete offer (vanilla ICE: all candidates gathered
// first) is POSTed as application/sdp, authenticated with the
// short-lived bearer credential; the response body is the answer. Any
// non-success response or malformed answer fails with an error
// wrapping [ErrNegotiation].
func (t *Transport) Negotiate(ctx context.Context, endpoint, bearer string) error {
	connection := t.peerConnection()
	if connection == nil {
		return fmt.Errorf("%w: no peer connection", ErrNegotiation)
	}

	offer, err := connection.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("%w: creating offer: %v", ErrNegotiation, err)
	}

	gatherComplete := webrtc.GatheringCompletePromise(connection)
	if err := connection.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("%w: setting local description: %v", ErrNegotiation, err)
	}

	select {
	case <-gatherComplete:
	case <-time.After(iceGatherTimeout):
		return fmt.Errorf("%w: ICE gathering timed out after %s", ErrNegotiation, iceGatherTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	local := connection.LocalDescription()
	if local == nil {
		return fmt.Errorf("%w: no local description after gathering", ErrNegotiation)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(local.SDP))
	if err != nil {
		return fmt.Errorf("%w: building signaling request: %v", ErrNegotiation, err)
	}
	request.Header.Set("Authorization", "Bearer "+bearer)
	request.Header.Set("Content-Type", "application/sdp")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNegotiation, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: reading answer: %v", ErrNegotiation, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: endpoint returned %d: %s", ErrNegotiation, response.StatusCode, body)
	}

	answer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  string(body),
	}
	if err := connection.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("%w: setting remote description: %v", ErrNegotiation, err)
	}

	t.logger.Info("realtime session negotiated", "endpoint", endpoint)
	return nil
}
