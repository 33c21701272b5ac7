package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	notifyout "octowatch/internal/modules/notify/adapter/out"
)

func TestWebhookSinkSendsContentAndUsername(t *testing.T) {
	t.Parallel()

	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := notifyout.NewWebhookSink(server.URL)
	if err := sink.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["content"] != "hello" {
		t.Fatalf("expected content %q, got %q", "hello", got["content"])
	}
	if got["username"] == "" {
		t.Fatal("expected username in payload")
	}
}

func TestWebhookSinkReportsHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	sink := notifyout.NewWebhookSink(server.URL)
	if err := sink.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
