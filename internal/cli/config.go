package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/guiyumin/ytsum/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ytsum configuration",
	Long:  "View ytsum settings and store API keys in the credentials file",
}

// ytsum config show - show the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		src := config.DefaultSources()

		settingsPath, err := config.SettingsPath(flagConfig, src)
		if err != nil {
			fail(err)
		}
		settings, err := config.LoadSettings(settingsPath, src)
		if err != nil {
			fail(err)
		}
		credentialsPath, err := config.CredentialsPath(src)
		if err != nil {
			fail(err)
		}

		provider := flagProvider
		if provider == "" {
			provider = settings.Provider
		}
		if provider == "" {
			provider = config.ProviderOpenRouter
		}
		model := settings.DefaultModel
		if model == "" {
			model = "(provider default)"
		}

		fmt.Println("Current configuration:")
		fmt.Printf("  Provider:    %s\n", provider)
		fmt.Printf("  Model:       %s\n", model)
		fmt.Printf("  Settings:    %s\n", settingsPath)
		fmt.Printf("  Credentials: %s\n", credentialsPath)

		key, source, err := config.LookupAPIKey(provider, "", settings, src)
		if err != nil {
			fail(err)
		}
		if key == "" {
			fmt.Println("  API key:     (not set)")
			return
		}
		fmt.Printf("  API key:     %s (from %s)\n", maskKey(key), source)
	},
}

// ytsum config path - show the settings file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.SettingsPath(flagConfig, config.DefaultSources())
		if err != nil {
			fail(err)
		}
		fmt.Println(path)
	},
}

// ytsum config set-key - store an API key in the credentials file
var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store an API key in the credentials file",
	Long: `Prompt for an API key (input is hidden) and save it to
~/.config/ytsum/credentials with user-only permissions.

Examples:
  ytsum config set-key
  ytsum config set-key --provider anthropic`,
	Run: func(cmd *cobra.Command, args []string) {
		provider := flagProvider
		if provider == "" {
			provider = config.ProviderOpenRouter
		}
		if provider != config.ProviderOpenRouter && provider != config.ProviderAnthropic {
			fmt.Fprintf(os.Stderr, "Unknown provider: %s\n", provider)
			os.Exit(1)
		}

		fmt.Printf("%s API key: ", config.KeyEnvVar(provider))
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fail(fmt.Errorf("failed to read API key: %w", err))
		}

		key := strings.TrimSpace(string(keyBytes))
		if key == "" {
			fmt.Fprintln(os.Stderr, "API key is required")
			os.Exit(1)
		}

		path, err := config.WriteCredentials(provider, key, config.DefaultSources())
		if err != nil {
			fail(err)
		}
		fmt.Printf("API key saved to %s\n", path)
	},
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}
