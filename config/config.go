// Package config loads runtime configuration from the environment. Every
// setting has a usable default except the provider API key, which is
// validated at startup rather than at first model call.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config is the full runtime configuration, populated from AGENTHUB_*
// environment variables.
type Config struct {
	// Provider selects the model backend: "anthropic" or "openai".
	Provider string `envconfig:"PROVIDER" default:"anthropic"`

	// APIKey authenticates against the selected provider. When empty the
	// provider SDK falls back to its own environment variable.
	APIKey string `envconfig:"API_KEY"`

	// Model overrides the provider's default model id.
	Model string `envconfig:"MODEL"`

	// MaxTokens caps each model response.
	MaxTokens int64 `envconfig:"MAX_TOKENS" default:"4096"`

	// MaxContextTokens is the per-agent history budget before compaction.
	MaxContextTokens int `envconfig:"MAX_CONTEXT_TOKENS" default:"3000"`

	// MaxDelegationDepth bounds hand-off chains within one turn.
	MaxDelegationDepth int `envconfig:"MAX_DELEGATION_DEPTH" default:"3"`

	// DatabasePath locates the SQLite database file.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/agenthub.db"`

	// WorkspacePath roots all file-touching tools.
	WorkspacePath string `envconfig:"WORKSPACE_PATH" default:"workspace"`

	// Addr is the HTTP listen address.
	Addr string `envconfig:"ADDR" default:":8000"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is "json" or "text".
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from AGENTHUB_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AGENTHUB", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (use %q or %q)", c.Provider, ProviderAnthropic, ProviderOpenAI)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("max context tokens must be positive, got %d", c.MaxContextTokens)
	}
	if c.MaxDelegationDepth <= 0 {
		return fmt.Errorf("max delegation depth must be positive, got %d", c.MaxDelegationDepth)
	}
	return nil
}
