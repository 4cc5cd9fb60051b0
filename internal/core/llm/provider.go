// Package llm sends summarization requests to an LLM backend. Two wire shapes
// are supported: the Anthropic Messages API (a flat list of content blocks)
// and the OpenRouter chat-completions API (a list of choices). Both sit
// behind the Provider interface so the pipeline never branches on backend.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/guiyumin/ytsum/internal/errs"
)

// MaxTokens is the output ceiling sent with every summarization request.
const MaxTokens = 4096

// Provider is a summarization backend.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, prompt, transcript string) (string, error)
}

// New returns the backend for a provider name.
func New(provider, apiKey, model string, verbose bool) (Provider, error) {
	switch provider {
	case "anthropic":
		return &Anthropic{APIKey: apiKey, Model: model, Verbose: verbose}, nil
	case "openrouter":
		return &OpenRouter{APIKey: apiKey, Model: model, Verbose: verbose}, nil
	default:
		return nil, &errs.ConfigError{Msg: "unknown provider: " + provider}
	}
}

// chatRequest is the request body both backends accept.
type chatRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// errorEnvelope is the error body shape both backends emit on failure.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newChatRequest(model, prompt, transcript string) chatRequest {
	return chatRequest{
		Model:     model,
		MaxTokens: MaxTokens,
		Messages: []message{
			{Role: "user", Content: prompt + "\n\n---\n\nTranscript:\n" + transcript},
		},
	}
}

// classifyFailure turns a non-success response into an APIRequestError,
// preferring the provider's error envelope message and falling back to the
// raw body verbatim.
func classifyFailure(status string, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &errs.APIRequestError{Msg: fmt.Sprintf("API error (%s): %s", status, envelope.Error.Message)}
	}
	return &errs.APIRequestError{Msg: fmt.Sprintf("API error (%s): %s", status, body)}
}

var verboseStyle = color.New(color.Faint)

func verbosef(format string, args ...any) {
	verboseStyle.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
}
