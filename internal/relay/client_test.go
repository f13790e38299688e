package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestFetchJSONViaRelay(t *testing.T) {
	target := "https://upstream.test/api/data"

	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("url")
		if got != target {
			t.Errorf("relay received url %q, want %q", got, target)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer relaySrv.Close()

	client := NewClient(relaySrv.Client(), relaySrv.URL+"/?url=", 0)

	var payload struct {
		Value int `json:"value"`
	}
	if err := client.FetchJSON(context.Background(), target, &payload); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if payload.Value != 42 {
		t.Fatalf("expected 42, got %d", payload.Value)
	}
}

func TestFetchJSONFallsBackToDirect(t *testing.T) {
	relayHits := 0
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayHits++
		http.Error(w, "relay down", http.StatusBadGateway)
	}))
	defer relaySrv.Close()

	directSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer directSrv.Close()

	client := NewClient(directSrv.Client(), relaySrv.URL+"/?url=", 0)

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := client.FetchJSON(context.Background(), directSrv.URL, &payload); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if !payload.OK {
		t.Fatalf("expected direct payload")
	}
	if relayHits != 1 {
		t.Fatalf("expected exactly one relay attempt, got %d", relayHits)
	}
}

func TestFetchJSONBothPathsFail(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusBadGateway)
	}))
	defer relaySrv.Close()

	directSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer directSrv.Close()

	client := NewClient(directSrv.Client(), relaySrv.URL+"/?url=", 0)

	var payload map[string]any
	err := client.FetchJSON(context.Background(), directSrv.URL, &payload)
	if err == nil {
		t.Fatalf("expected error when relay and direct both fail")
	}
	// The returned error carries the relay failure.
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected relay status in error, got %v", err)
	}
}

func TestFetchJSONWithoutRelay(t *testing.T) {
	directSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer directSrv.Close()

	client := NewClient(directSrv.Client(), "", 0)

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := client.FetchJSON(context.Background(), directSrv.URL, &payload); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if !payload.OK {
		t.Fatalf("expected payload from direct fetch")
	}
}

func TestFetchJSONEmptyTarget(t *testing.T) {
	client := NewClient(nil, "", 0)
	if err := client.FetchJSON(context.Background(), "  ", &struct{}{}); err == nil {
		t.Fatalf("expected error for empty target")
	}
}

func TestRelayURLEncoding(t *testing.T) {
	target := "https://upstream.test/path?a=1&b=two words"
	escaped := url.QueryEscape(target)
	if !strings.Contains(escaped, "%3A%2F%2F") {
		t.Fatalf("expected scheme to be percent-encoded, got %q", escaped)
	}

	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != target {
			t.Errorf("relay received %q, want %q", got, target)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer relaySrv.Close()

	client := NewClient(relaySrv.Client(), relaySrv.URL+"/?url=", 0)
	var payload map[string]any
	if err := client.FetchJSON(context.Background(), target, &payload); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
}
