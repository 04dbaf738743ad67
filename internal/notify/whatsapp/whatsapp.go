// Package whatsapp sends group and direct messages through a WhatsApp
// HTTP messaging gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

// Client sends messages through the gateway's REST endpoints.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a gateway client. baseURL is the gateway root, token the
// bearer credential.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendGroup posts the message to a group conversation.
func (c *Client) SendGroup(ctx context.Context, groupID, message string) error {
	path := fmt.Sprintf("/v1/groups/%s/messages", url.PathEscape(groupID))
	return c.send(ctx, path, sendRequest{To: groupID, Body: message})
}

// SendDirect posts the message to a single phone number.
func (c *Client) SendDirect(ctx context.Context, phone, message string) error {
	return c.send(ctx, "/v1/messages", sendRequest{To: phone, Body: message})
}

func (c *Client) send(ctx context.Context, path string, payload sendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req) //nolint:gosec // G704: baseURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("whatsapp: send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp: gateway returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
