package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestPost(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Pointer[string]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		gotBody.Store(&payload.Text)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := New("Twitter", srv.URL)
	if b.Name() != "Twitter" {
		t.Errorf("Name() = %q, want Twitter", b.Name())
	}

	if err := b.Post(context.Background(), "MISSING PERSON ALERT: test"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got := gotBody.Load(); got == nil || *got != "MISSING PERSON ALERT: test" {
		t.Errorf("posted text = %v, want alert message", got)
	}
}

func TestPost_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	b := New("Twitter", srv.URL)
	err := b.Post(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid_token") {
		t.Errorf("error = %q, want status and body", err)
	}
}

func TestPost_EmptyURLIsNoop(t *testing.T) {
	t.Parallel()

	b := New("Twitter", "")
	if err := b.Post(context.Background(), "hello"); err != nil {
		t.Fatalf("Post with empty URL: %v", err)
	}
}

func TestPost_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New("Twitter", srv.URL)
	if err := b.Post(ctx, "hello"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
