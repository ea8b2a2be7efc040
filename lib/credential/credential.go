// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Provider supplies a short-lived bearer key for realtime session
// negotiation.
type Provider interface {
	// EphemeralKey returns a bearer key valid for one session setup.
	// An empty key with a nil error means the provider is unavailable
	// and has already surfaced its own error; the caller should abort
	// without reporting anything further.
	EphemeralKey(ctx context.Context) (string, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (string, error)

// EphemeralKey implements Provider.
func (f ProviderFunc) EphemeralKey(ctx context.Context) (string, error) {
	return f(ctx)
}

// HTTPProvider fetches ephemeral keys from a backend endpoint that
// holds the long-lived API key. The endpoint responds with a JSON
// object of the form {"value": "<key>"}.
type HTTPProvider struct {
	// Endpoint is the URL of the key-minting endpoint.
	Endpoint string

	// Client is the HTTP client to use. Defaults to
	// http.DefaultClient when nil.
	Client *http.Client
}

// keyResponse is the endpoint's JSON body.
type keyResponse struct {
	Value string `json:"value"`
}

// EphemeralKey implements Provider.
func (p *HTTPProvider) EphemeralKey(ctx context.Context) (string, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building ephemeral key request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("fetching ephemeral key: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return "", fmt.Errorf("ephemeral key endpoint returned %d: %s", response.StatusCode, body)
	}

	var key keyResponse
	if err := json.NewDecoder(response.Body).Decode(&key); err != nil {
		return "", fmt.Errorf("decoding ephemeral key response: %w", err)
	}
	if key.Value == "" {
		return "", fmt.Errorf("ephemeral key endpoint returned an empty key")
	}
	return key.Value, nil
}
