package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenRouter(url string) *OpenRouter {
	return &OpenRouter{APIKey: "test-key", Model: DefaultModel, BaseURL: url}
}

func TestOpenRouterSummarize(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"choices":[{"message":{"content":"Part one."}},{"message":{"content":"Part two."}}]}`))
	}))
	defer server.Close()

	summary, err := newOpenRouter(server.URL).Summarize(context.Background(), "Summarize this.", "the transcript")
	require.NoError(t, err)
	assert.Equal(t, "Part one.\nPart two.", summary)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 4096, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestOpenRouterErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","code":429}}`))
	}))
	defer server.Close()

	_, err := newOpenRouter(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenRouterRawBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer server.Close()

	_, err := newOpenRouter(server.URL).Summarize(context.Background(), "p", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (500")
	assert.Contains(t, err.Error(), "<html>gateway timeout</html>")
}

const modelsCatalog = `{"data":[
	{"id":"anthropic/claude-haiku-4.5","name":"Claude Haiku 4.5","context_length":200000,
	 "pricing":{"prompt":"0.000001","completion":"0.000005"}},
	{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000,
	 "pricing":{"prompt":"0.0000025","completion":"0.00001"}},
	{"id":"meta-llama/llama-3-8b:free","name":"Llama 3 8B (free)","context_length":8192,
	 "pricing":{"prompt":"-1","completion":"-1"}}
]}`

func modelsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(modelsCatalog))
	}))
}

func TestListModels(t *testing.T) {
	server := modelsServer(t)
	defer server.Close()

	var out bytes.Buffer
	err := newOpenRouter(server.URL).ListModels(context.Background(), "", &out)
	require.NoError(t, err)

	listing := out.String()
	assert.Contains(t, listing, "anthropic/claude-haiku-4.5")
	assert.Contains(t, listing, "openai/gpt-4o")
	assert.Contains(t, listing, "200k")
	assert.Contains(t, listing, "128k")
	assert.Contains(t, listing, "$1.00 / $5.00")
	assert.Contains(t, listing, "$2.50 / $10.00")
	// Negative prices mark free tiers.
	assert.Contains(t, listing, "N/A")
}

func TestListModelsFilter(t *testing.T) {
	server := modelsServer(t)
	defer server.Close()

	var out bytes.Buffer
	err := newOpenRouter(server.URL).ListModels(context.Background(), "CLAUDE", &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "anthropic/claude-haiku-4.5")
	assert.NotContains(t, out.String(), "gpt-4o")
}

func TestListModelsFilterMatchesDisplayName(t *testing.T) {
	server := modelsServer(t)
	defer server.Close()

	var out bytes.Buffer
	err := newOpenRouter(server.URL).ListModels(context.Background(), "llama 3", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "meta-llama/llama-3-8b:free")
}

func TestListModelsNoMatchIsNotAnError(t *testing.T) {
	server := modelsServer(t)
	defer server.Close()

	var out bytes.Buffer
	err := newOpenRouter(server.URL).ListModels(context.Background(), "does-not-exist", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No models found matching 'does-not-exist'")
}

func TestFormatContext(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{500, "500"},
		{999, "999"},
		{1000, "1k"},
		{12000, "12k"},
		{999999, "999k"},
		{1000000, "1M"},
		{2000000, "2M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatContext(tt.in))
	}
}

func TestFormatPricing(t *testing.T) {
	tests := []struct {
		name    string
		pricing modelPricing
		want    string
	}{
		{name: "standard", pricing: modelPricing{Prompt: "0.000003", Completion: "0.000015"}, want: "$3.00 / $15.00"},
		{name: "zero is valid", pricing: modelPricing{Prompt: "0", Completion: "0"}, want: "$0.00 / $0.00"},
		{name: "negative prompt", pricing: modelPricing{Prompt: "-1", Completion: "0.000015"}, want: "N/A"},
		{name: "negative completion", pricing: modelPricing{Prompt: "0.000003", Completion: "-1"}, want: "N/A"},
		{name: "unparseable", pricing: modelPricing{Prompt: "free", Completion: "0"}, want: "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPricing(&tt.pricing))
		})
	}
}

func TestTruncateField(t *testing.T) {
	assert.Equal(t, "short", truncateField("short", 10))
	assert.Equal(t, "exactlyten", truncateField("exactlyten", 10))
	assert.Equal(t, "toolong...", truncateField("toolongvalue", 10))
}

func TestNewFactory(t *testing.T) {
	p, err := New("anthropic", "k", "m", false)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	p, err = New("openrouter", "k", "m", false)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())

	_, err = New("hal9000", "k", "m", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
