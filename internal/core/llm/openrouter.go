package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/guiyumin/ytsum/internal/errs"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when neither the CLI nor the settings file names
	// a model.
	DefaultModel = "anthropic/claude-haiku-4.5"

	modelIDWidth   = 44
	modelNameWidth = 39
)

// OpenRouter talks to the OpenRouter chat-completions API. Responses carry a
// list of choices, each with one message. It also exposes the model catalog.
type OpenRouter struct {
	APIKey  string
	Model   string
	Verbose bool

	BaseURL    string // overridden in tests
	HTTPClient *http.Client
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelsResponse struct {
	Data []modelInfo `json:"data"`
}

type modelInfo struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	ContextLength *uint64       `json:"context_length"`
	Pricing       *modelPricing `json:"pricing"`
}

// modelPricing holds per-token dollar prices as decimal strings.
type modelPricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

func (o *OpenRouter) Name() string { return "openrouter" }

func (o *OpenRouter) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return defaultOpenRouterBaseURL
}

func (o *OpenRouter) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

// Summarize sends one chat-completions request and joins the returned choice
// messages.
func (o *OpenRouter) Summarize(ctx context.Context, prompt, transcript string) (string, error) {
	body, err := json.Marshal(newChatRequest(o.Model, prompt, transcript))
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to encode request: " + err.Error(), Err: err}
	}

	if o.Verbose {
		verbosef("Model: %s", o.Model)
		verbosef("Transcript length: %d chars", len(transcript))
		verbosef("Sending request to OpenRouter API...")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL()+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &errs.APIRequestError{Msg: "failed to create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient().Do(req)
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

	var parsed openRouterResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &errs.APIRequestError{Msg: "failed to parse response: " + err.Error(), Err: err}
	}

	parts := make([]string, 0, len(parsed.Choices))
	for _, choice := range parsed.Choices {
		parts = append(parts, choice.Message.Content)
	}
	text := strings.Join(parts, "\n")

	if o.Verbose {
		verbosef("Response received: %d chars", len(text))
	}
	return text, nil
}

// ListModels fetches the model catalog, filters it by an optional
// case-insensitive search term, and writes a formatted table to out. An empty
// result is not an error.
func (o *OpenRouter) ListModels(ctx context.Context, search string, out io.Writer) error {
	if o.Verbose {
		verbosef("Fetching models from OpenRouter API...")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL()+"/models", nil)
	if err != nil {
		return &errs.APIRequestError{Msg: "failed to create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.httpClient().Do(req)
	if err != nil {
		return &errs.APIRequestError{Msg: "failed to fetch models: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.APIRequestError{Msg: "failed to read models response: " + err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyFailure(resp.Status, raw)
	}

	var catalog modelsResponse
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return &errs.APIRequestError{Msg: "failed to parse models response: " + err.Error(), Err: err}
	}

	models := filterModels(catalog.Data, search)
	if len(models) == 0 {
		if search != "" {
			fmt.Fprintf(out, "No models found matching '%s'\n", search)
		} else {
			fmt.Fprintln(out, "No models found")
		}
		return nil
	}

	bold := color.New(color.Bold)
	bold.Fprintf(out, "%-45s %-40s %8s   PRICING (per 1M tokens)\n", "MODEL ID", "NAME", "CONTEXT")
	fmt.Fprintln(out, strings.Repeat("-", 120))

	for _, m := range models {
		contextCol := "N/A"
		if m.ContextLength != nil {
			contextCol = formatContext(*m.ContextLength)
		}
		pricingCol := "N/A"
		if m.Pricing != nil {
			pricingCol = formatPricing(m.Pricing)
		}
		fmt.Fprintf(out, "%-45s %-40s %8s   %s\n",
			truncateField(m.ID, modelIDWidth),
			truncateField(m.Name, modelNameWidth),
			contextCol,
			pricingCol,
		)
	}

	if o.Verbose {
		verbosef("Total models displayed: %d", len(models))
	}
	return nil
}

// filterModels keeps entries whose id or display name contains the term,
// case-insensitively. An empty term keeps everything.
func filterModels(models []modelInfo, search string) []modelInfo {
	if search == "" {
		return models
	}
	term := strings.ToLower(search)
	var kept []modelInfo
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.ID), term) || strings.Contains(strings.ToLower(m.Name), term) {
			kept = append(kept, m)
		}
	}
	return kept
}

// formatContext renders a context window: raw below 1k, then k, then M.
// Integer division, no decimals.
func formatContext(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dk", n/1_000)
	default:
		return strconv.FormatUint(n, 10)
	}
}

// formatPricing renders per-1M-token dollar prices, or N/A when either price
// does not parse as a non-negative number.
func formatPricing(p *modelPricing) string {
	prompt, ok := parsePrice(p.Prompt)
	if !ok {
		return "N/A"
	}
	completion, ok := parsePrice(p.Completion)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f / $%.2f", prompt, completion)
}

// parsePrice converts a per-token dollar string to a per-million rate.
// Negative prices mark free or special tiers and do not parse.
func parsePrice(s string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price * 1_000_000, true
}

func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
