package cli

import (
	"context"
	"os"

	"github.com/guiyumin/ytsum/internal/config"
	"github.com/guiyumin/ytsum/internal/core/llm"
	"github.com/spf13/cobra"
)

// modelsCmd lists the OpenRouter model catalog. `-l/--list-models` on the
// root command is the short form of the same thing.
var modelsCmd = &cobra.Command{
	Use:   "models [term]",
	Short: "List available models from OpenRouter",
	Long: `List models from the OpenRouter catalog with context window and pricing.

An optional term filters by substring match against model ID or name.

Examples:
  ytsum models
  ytsum models claude
  ytsum models "gpt-4" -v`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		term := ""
		if len(args) > 0 {
			term = args[0]
		}
		if err := runListModels(term); err != nil {
			fail(err)
		}
	},
}

func runListModels(term string) error {
	// The catalog endpoint is OpenRouter's; keys for other providers won't
	// open it, so the key is resolved for openrouter regardless of the
	// configured default provider.
	cfg, err := config.Resolve(config.Args{
		APIKey:     flagAPIKey,
		Provider:   config.ProviderOpenRouter,
		ConfigPath: flagConfig,
		Verbose:    flagVerbose,
	}, config.DefaultSources())
	if err != nil {
		return err
	}

	client := &llm.OpenRouter{APIKey: cfg.APIKey, Verbose: cfg.Verbose}
	return client.ListModels(context.Background(), term, os.Stdout)
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
