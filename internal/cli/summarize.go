package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/guiyumin/ytsum/internal/config"
	"github.com/guiyumin/ytsum/internal/core/llm"
	"github.com/guiyumin/ytsum/internal/core/transcript"
	"golang.org/x/term"
)

// runSummarize is the whole pipeline: config, video ID, transcript, summary.
// The first failing stage aborts the run; nothing is printed on failure.
func runSummarize(reference string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	videoID, err := transcript.ExtractVideoID(reference)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		logVerbose("URL: %s", reference)
		logVerbose("Video ID: %s", videoID)
		logVerbose("Fetching transcript...")
	}

	ctx := context.Background()
	fetcher := transcript.NewClient()

	text, err := runStep(cfg.Verbose, "Fetching transcript", func() (string, error) {
		return fetcher.Fetch(ctx, videoID)
	})
	if err != nil {
		return err
	}

	if cfg.Verbose {
		logVerbose("Transcript fetched: %d chars", len(text))
	}

	provider, err := llm.New(cfg.Provider, cfg.APIKey, cfg.Model, cfg.Verbose)
	if err != nil {
		return err
	}

	summary, err := runStep(cfg.Verbose, "Summarizing", func() (string, error) {
		return provider.Summarize(ctx, cfg.Prompt, text)
	})
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}

// runStep runs fn under a spinner when output goes to an interactive
// terminal. Verbose mode prints diagnostics instead, so the spinner would
// only fight with them.
func runStep(verbose bool, label string, fn func() (string, error)) (string, error) {
	if verbose || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fn()
	}
	return runStepWithSpinner(label, fn)
}

func resolveConfig() (*config.Config, error) {
	return config.Resolve(config.Args{
		Prompt:     flagPrompt,
		Model:      flagModel,
		APIKey:     flagAPIKey,
		Provider:   flagProvider,
		ConfigPath: flagConfig,
		Verbose:    flagVerbose,
	}, config.DefaultSources())
}
