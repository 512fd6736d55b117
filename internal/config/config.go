// Package config resolves the service configuration from defaults, an
// optional YAML file, environment variables and caller overrides.
package config

import (
	"strings"
	"time"

	"cassandra/internal/observability"
)

// Providers understood by the completion client factory.
const (
	ProviderGroq     = "groq"
	ProviderCerebras = "cerebras"
	ProviderOpenAI   = "openai"
	ProviderMock     = "mock"
)

// ProviderDefaults holds the base URL and model used when a provider is
// selected without explicit values.
type ProviderDefaults struct {
	BaseURL string
	Model   string
}

var providerDefaults = map[string]ProviderDefaults{
	ProviderGroq:     {BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile"},
	ProviderCerebras: {BaseURL: "https://api.cerebras.ai/v1", Model: "llama-3.3-70b"},
	ProviderOpenAI:   {BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	ProviderMock:     {BaseURL: "", Model: "mock"},
}

// DefaultsFor returns the provider defaults; unknown providers get none.
func DefaultsFor(provider string) (ProviderDefaults, bool) {
	d, ok := providerDefaults[strings.ToLower(strings.TrimSpace(provider))]
	return d, ok
}

// Config is the resolved service configuration.
type Config struct {
	LLM           LLMConfig            `yaml:"llm"`
	Pexels        PexelsConfig         `yaml:"pexels"`
	Server        ServerConfig         `yaml:"server"`
	Storage       StorageConfig        `yaml:"storage"`
	Deck          DeckConfig           `yaml:"deck"`
	Observability observability.Config `yaml:"observability"`
}

// LLMConfig selects the text-generation backend.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PexelsConfig configures the image-search backend. An empty key disables it.
type PexelsConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-search timeout.
func (c PexelsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Per-client budget for the model-backed routes; 0 disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// StorageConfig locates working directories and the cleanup policy.
type StorageConfig struct {
	DataDir              string `yaml:"data_dir"`
	OutputDir            string `yaml:"output_dir"`
	MaxAgeMinutes        int    `yaml:"max_age_minutes"`
	SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
}

// DeckConfig configures the assembler.
type DeckConfig struct {
	// TemplatePath points at an on-disk .pptx; empty uses the embedded base.
	TemplatePath string `yaml:"template_path"`
	BulletGlyph  string `yaml:"bullet_glyph"`
}

// Default returns the configuration before any source is applied.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:       ProviderGroq,
			Temperature:    0.7,
			TimeoutSeconds: 30,
		},
		Pexels: PexelsConfig{
			BaseURL:        "https://api.pexels.com/v1",
			TimeoutSeconds: 10,
		},
		Server: ServerConfig{
			Port:               "5000",
			AllowedOrigins:     []string{"*"},
			RateLimitPerMinute: 30,
			RateLimitBurst:     10,
		},
		Storage: StorageConfig{
			DataDir:              "data",
			OutputDir:            "output",
			MaxAgeMinutes:        30,
			SweepIntervalMinutes: 10,
		},
		Deck: DeckConfig{
			BulletGlyph: "➣",
		},
		Observability: observability.DefaultConfig(),
	}
}
