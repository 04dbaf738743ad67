// Package claude implements casework.FaceMatcher on the Anthropic API,
// asking a vision-capable model whether two photos depict the same person.
package claude

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/findtogether/internal/casework"
)

const (
	maxImageBytes  = 5 << 20
	responseTokens = 256
	fetchTimeout   = 15 * time.Second
)

const comparePrompt = `Carefully compare the person in these two images. Are they the same individual?
Respond with raw JSON only, no markdown. The JSON must have two fields:
"is_match": a boolean, and "confidence": a number between 0.0 and 1.0.`

// Matcher compares photos through the Anthropic messages API.
type Matcher struct {
	client anthropic.Client
	model  string
	fetch  *http.Client
}

// New creates a matcher with the given API key and model name.
func New(apiKey, model string) *Matcher {
	return &Matcher{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		fetch:  &http.Client{Timeout: fetchTimeout},
	}
}

// Compare fetches both images and asks the model for a match verdict.
func (m *Matcher) Compare(ctx context.Context, imageURLA, imageURLB string) (casework.FaceComparison, error) {
	imgA, err := m.fetchBase64(ctx, imageURLA)
	if err != nil {
		return casework.FaceComparison{}, err
	}
	imgB, err := m.fetchBase64(ctx, imageURLB)
	if err != nil {
		return casework.FaceComparison{}, err
	}

	msg, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: responseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/jpeg", imgA),
				anthropic.NewImageBlockBase64("image/jpeg", imgB),
				anthropic.NewTextBlock(comparePrompt),
			),
		},
	})
	if err != nil {
		return casework.FaceComparison{}, fmt.Errorf("claude: compare: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseVerdict(text.String())
}

// parseVerdict decodes the model's JSON answer, tolerating a fenced
// code block around it.
func parseVerdict(s string) (casework.FaceComparison, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var out casework.FaceComparison
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return casework.FaceComparison{}, fmt.Errorf("claude: decode verdict %q: %w", s, err)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return casework.FaceComparison{}, fmt.Errorf("claude: confidence %v out of range", out.Confidence)
	}
	return out, nil
}

func (m *Matcher) fetchBase64(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("claude: create image request: %w", err)
	}

	resp, err := m.fetch.Do(req) //nolint:gosec // G704: image URLs come from our own store
	if err != nil {
		return "", fmt.Errorf("claude: fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude: image fetch returned %d for %s", resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("claude: read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
