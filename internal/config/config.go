// Package config assembles the effective settings for one invocation from
// CLI flags, environment variables, the credentials file, and the settings
// file, in that precedence order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guiyumin/ytsum/internal/core/llm"
	"github.com/guiyumin/ytsum/internal/errs"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// Args carries the CLI-supplied values. Empty strings mean "not given".
type Args struct {
	Prompt     string
	Model      string
	APIKey     string
	Provider   string
	ConfigPath string
	Verbose    bool
}

// Sources abstracts process state so precedence can be tested without real
// environment variables or files.
type Sources struct {
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
	HomeDir  func() (string, error)
}

func DefaultSources() Sources {
	return Sources{
		Getenv:   os.Getenv,
		ReadFile: os.ReadFile,
		HomeDir:  os.UserHomeDir,
	}
}

// Config is the effective configuration for one run. Built once by Resolve,
// immutable afterwards.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Prompt   string
	Verbose  bool

	SettingsPath string
}

// Resolve merges the four settings sources. The API key is mandatory; every
// other field has a usable default.
func Resolve(args Args, src Sources) (*Config, error) {
	settingsPath, err := SettingsPath(args.ConfigPath, src)
	if err != nil {
		return nil, err
	}
	settings, err := LoadSettings(settingsPath, src)
	if err != nil {
		return nil, err
	}

	provider := firstNonEmpty(args.Provider, settings.Provider, ProviderOpenRouter)
	if provider != ProviderOpenRouter && provider != ProviderAnthropic {
		return nil, &errs.ConfigError{Msg: fmt.Sprintf("unknown provider %q (use %s or %s)", provider, ProviderOpenRouter, ProviderAnthropic)}
	}

	apiKey, _, err := LookupAPIKey(provider, args.APIKey, settings, src)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		credentialsPath, _ := CredentialsPath(src)
		return nil, &errs.ConfigError{Msg: fmt.Sprintf(
			"no API key found. Use --api-key, set the %s env var, add %s to %s, or set api_key in %s",
			KeyEnvVar(provider), KeyEnvVar(provider), credentialsPath, settingsPath,
		)}
	}

	model := firstNonEmpty(args.Model, settings.DefaultModel, defaultModel(provider))
	prompt := firstNonEmpty(args.Prompt, llm.DefaultPrompt)

	return &Config{
		Provider:     provider,
		APIKey:       apiKey,
		Model:        model,
		Prompt:       prompt,
		Verbose:      args.Verbose,
		SettingsPath: settingsPath,
	}, nil
}

// LookupAPIKey walks the key sources in precedence order: CLI flag, env var,
// credentials file, settings file. It reports which source supplied the key;
// an empty key with a nil error means no source had one.
func LookupAPIKey(provider, cliKey string, settings Settings, src Sources) (key, source string, err error) {
	if cliKey != "" {
		return cliKey, "--api-key", nil
	}
	if envKey := src.Getenv(KeyEnvVar(provider)); envKey != "" {
		return envKey, KeyEnvVar(provider) + " env var", nil
	}
	creds, err := LoadCredentials(src)
	if err != nil {
		return "", "", err
	}
	if fileKey := creds[KeyEnvVar(provider)]; fileKey != "" {
		return fileKey, "credentials file", nil
	}
	if settings.APIKey != "" {
		return settings.APIKey, "settings file", nil
	}
	return "", "", nil
}

// KeyEnvVar names the environment variable (and credentials-file key) that
// holds the API key for a provider.
func KeyEnvVar(provider string) string {
	if provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENROUTER_API_KEY"
}

func defaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return llm.DefaultAnthropicModel
	}
	return llm.DefaultModel
}

// SettingsPath returns the settings-file location: the override when given,
// otherwise ~/.config/ytsum/config.
func SettingsPath(override string, src Sources) (string, error) {
	if override != "" {
		return override, nil
	}
	return userPath("config", src)
}

// CredentialsPath returns ~/.config/ytsum/credentials. The credentials file
// has no CLI override.
func CredentialsPath(src Sources) (string, error) {
	return userPath("credentials", src)
}

func userPath(name string, src Sources) (string, error) {
	home, err := src.HomeDir()
	if err != nil {
		return "", &errs.ConfigError{Msg: "cannot locate home directory: " + err.Error()}
	}
	return filepath.Join(home, ".config", "ytsum", name), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}

// Settings is the parsed settings file. All fields are optional.
type Settings struct {
	APIKey       string
	DefaultModel string
	Provider     string
}

// LoadSettings reads and parses the settings file. A missing file is an
// empty configuration, not a failure — including a missing override path.
func LoadSettings(path string, src Sources) (Settings, error) {
	content, err := src.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, &errs.ConfigError{Msg: "failed to read settings file: " + err.Error()}
	}
	return parseSettings(string(content)), nil
}

// parseSettings scans key=value lines. Blank lines and #-comments are
// skipped, unknown keys are ignored for forward compatibility, and values
// are trimmed but never unquoted.
func parseSettings(content string) Settings {
	var settings Settings
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "api_key":
			settings.APIKey = value
		case "default_model":
			settings.DefaultModel = value
		case "provider":
			settings.Provider = value
		}
	}
	return settings
}
