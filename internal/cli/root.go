package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/guiyumin/ytsum/internal/version"
	"github.com/spf13/cobra"
)

var (
	flagPrompt     string
	flagModel      string
	flagAPIKey     string
	flagConfig     string
	flagProvider   string
	flagVerbose    bool
	flagListModels bool
)

var rootCmd = &cobra.Command{
	Use:     "ytsum [url]",
	Short:   "Summarize YouTube videos from their transcripts",
	Version: version.Version,
	Long: `ytsum fetches a video's transcript and asks an LLM to summarize it.

The video can be given as a full URL (watch, youtu.be, or embed form) or as a
bare 11-character video ID.

API keys are looked up in order: --api-key, the provider's env var
(OPENROUTER_API_KEY or ANTHROPIC_API_KEY), ~/.config/ytsum/credentials,
then api_key in ~/.config/ytsum/config.

Examples:
  ytsum "https://youtube.com/watch?v=dQw4w9WgXcQ"
  ytsum dQw4w9WgXcQ -p "Is this worth watching?"
  ytsum dQw4w9WgXcQ -m anthropic/claude-sonnet-4.5 -v
  ytsum --list-models claude`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if flagListModels {
			term := ""
			if len(args) > 0 {
				term = args[0]
			}
			if err := runListModels(term); err != nil {
				fail(err)
			}
			return
		}

		if len(args) == 0 {
			cmd.Help()
			return
		}
		if err := runSummarize(args[0]); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagPrompt, "prompt", "p", "", "custom prompt for the summary")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model to use (default depends on provider)")
	rootCmd.Flags().StringVarP(&flagAPIKey, "api-key", "k", "", "API key (overrides env and config files)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.Flags().BoolVarP(&flagListModels, "list-models", "l", false, "list available models, optionally filtered by a term")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: openrouter (default) or anthropic")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
	os.Exit(1)
}

func logVerbose(format string, args ...any) {
	color.New(color.Faint).Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
}
