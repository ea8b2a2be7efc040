// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{"value": "ek_test_123"}`))
	}))
	defer server.Close()

	provider := &HTTPProvider{Endpoint: server.URL}
	key, err := provider.EphemeralKey(context.Background())
	if err != nil {
		t.Fatalf("EphemeralKey: %v", err)
	}
	if key != "ek_test_123" {
		t.Errorf("key = %q, want ek_test_123", key)
	}
}

func TestHTTPProviderNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	provider := &HTTPProvider{Endpoint: server.URL}
	if _, err := provider.EphemeralKey(context.Background()); err == nil {
		t.Fatal("EphemeralKey succeeded on a 403 response")
	}
}

func TestHTTPProviderEmptyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": ""}`))
	}))
	defer server.Close()

	provider := &HTTPProvider{Endpoint: server.URL}
	if _, err := provider.EphemeralKey(context.Background()); err == nil {
		t.Fatal("EphemeralKey accepted an empty key from the endpoint")
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	provider := &HTTPProvider{Endpoint: "http://127.0.0.1:1/key"}
	if _, err := provider.EphemeralKey(context.Background()); err == nil {
		t.Fatal("EphemeralKey succeeded against an unreachable endpoint")
	}
}

func TestProviderFunc(t *testing.T) {
	provider := ProviderFunc(func(context.Context) (string, error) {
		return "ek_inline", nil
	})
	key, err := provider.EphemeralKey(context.Background())
	if err != nil {
		t.Fatalf("EphemeralKey: %v", err)
	}
	if key != "ek_inline" {
		t.Errorf("key = %q, want ek_inline", key)
	}
}
