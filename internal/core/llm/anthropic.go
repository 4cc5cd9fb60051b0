package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/guiyumin/ytsum/internal/errs"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"

	// DefaultAnthropicModel is used when neither the CLI nor the settings
	// file names a model.
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
)

// Anthropic talks to the Anthropic Messages API. Responses carry a flat list
// of content blocks.
type Anthropic struct {
	APIKey  string
	Model   string
	Verbose bool

	BaseURL    string // overridden in tests
	HTTPClient *http.Client
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) baseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return defaultAnthropicBaseURL
}

func (a *Anthropic) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

// Summarize sends one Messages request and joins the returned content blocks.
func (a *Anthropic) Summarize(ctx context.Context, prompt, transcript string) (string, error) {
	body, err := json.Marshal(newChatRequest(a.Model, prompt, transcript))
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to encode request: " + err.Error(), Err: err}
	}

	if a.Verbose {
		verbosef("Model: %s", a.Model)
		verbosef("Transcript length: %d chars", len(transcript))
		verbosef("Sending request to Anthropic API...")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL()+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to create request: " + err.Error(), Err: err}
	}
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to send request: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to read response: " + err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyFailure(resp.Status, raw)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &errs.APIRequestError{Msg: "failed to parse response: " + err.Error(), Err: err}
	}

	parts := make([]string, 0, len(parsed.Content))
	for _, block := range parsed.Content {
		parts = append(parts, block.Text)
	}
	text := strings.Join(parts, "\n")

	if a.Verbose {
		verbosef("Response received: %d chars", len(text))
	}
	return text, nil
}
