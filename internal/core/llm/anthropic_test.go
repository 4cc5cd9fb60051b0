package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guiyumin/ytsum/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropic(url string) *Anthropic {
	return &Anthropic{APIKey: "test-key", Model: "claude-sonnet-4-20250514", BaseURL: url}
}

func TestAnthropicSummarize(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"First block."},{"type":"text","text":"Second block."}]}`))
	}))
	defer server.Close()

	summary, err := newAnthropic(server.URL).Summarize(context.Background(), "Summarize this.", "the transcript")
	require.NoError(t, err)
	assert.Equal(t, "First block.\nSecond block.", summary)

	// One user message carrying prompt + separator + transcript, capped at
	// 4096 output tokens.
	assert.Equal(t, 4096, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Summarize this.\n\n---\n\nTranscript:\nthe transcript", got.Messages[0].Content)
}

func TestAnthropicEmptyContentIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	summary, err := newAnthropic(server.URL).Summarize(context.Background(), "p", "t")
	require.NoError(t, err)
	assert.Equal(t, "", summary)
}

func TestAnthropicErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	_, err := newAnthropic(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)

	var apiErr *errs.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "API error (401")
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestAnthropicRawBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	_, err := newAnthropic(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestAnthropicUnparseableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newAnthropic(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestAnthropicTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newAnthropic(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)

	var apiErr *errs.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "failed to send request")
}
