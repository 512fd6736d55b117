// Package llm talks to OpenAI-compatible chat completion endpoints. Every
// caller in the deck pipeline needs a single user-turn completion, so the
// surface is one method.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cassandra/internal/config"
	"cassandra/internal/logging"
)

// Client produces a completion for a single user prompt.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Config selects and authenticates a provider.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

// ConfigFrom converts the resolved service configuration.
func ConfigFrom(cfg config.LLMConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	}
}

// NewClient builds the client for cfg.Provider. The mock provider returns
// empty completions so callers take their deterministic fallback.
func NewClient(cfg Config, logger logging.Logger) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case config.ProviderMock, "":
		return &MockClient{}, nil
	case config.ProviderGroq, config.ProviderCerebras, config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm provider %s requires an API key", provider)
		}
		defaults, _ := config.DefaultsFor(provider)
		if cfg.BaseURL == "" {
			cfg.BaseURL = defaults.BaseURL
		}
		if cfg.Model == "" {
			cfg.Model = defaults.Model
		}
		return newOpenAIClient(provider, cfg, logger), nil
	default:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("unknown llm provider %q without base_url", cfg.Provider)
		}
		// Any other OpenAI-compatible gateway.
		return newOpenAIClient(provider, cfg, logger), nil
	}
}
