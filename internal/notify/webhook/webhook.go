// Package webhook posts public alerts to a social channel through its
// incoming-webhook endpoint (Slack-compatible payload shape).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

// Broadcaster posts alert messages to one channel's webhook URL.
type Broadcaster struct {
	name       string
	webhookURL string
	client     *http.Client
}

// New creates a broadcaster for the named channel. If webhookURL is
// empty, Post is a no-op.
func New(name, webhookURL string) *Broadcaster {
	return &Broadcaster{
		name:       name,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Name returns the channel name the broadcaster was configured with.
func (b *Broadcaster) Name() string { return b.name }

// Post sends the message to the channel webhook.
func (b *Broadcaster) Post(ctx context.Context, message string) error {
	if b.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("%s: marshal message: %w", b.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", b.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("%s: post webhook: %w", b.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: webhook returned %d: %s", b.name, resp.StatusCode, string(respBody))
	}
	return nil
}
