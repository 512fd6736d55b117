package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

// Metadata records the provenance of resolved values.
type Metadata struct {
	sources  map[string]ValueSource
	path     string
	loadedAt time.Time
}

// Source returns where field came from. Unrecorded fields are defaults.
func (m Metadata) Source(field string) ValueSource {
	if src, ok := m.sources[field]; ok {
		return src
	}
	return SourceDefault
}

// Sources returns a copy of every recorded provenance.
func (m Metadata) Sources() map[string]ValueSource {
	out := make(map[string]ValueSource, len(m.sources))
	for k, v := range m.sources {
		out[k] = v
	}
	return out
}

// ConfigPath is the file the loader looked at, whether or not it existed.
func (m Metadata) ConfigPath() string { return m.path }

// LoadedAt reports when Load ran.
func (m Metadata) LoadedAt() time.Time { return m.loadedAt }

// EnvLookup resolves the value for an environment variable.
type EnvLookup func(string) (string, bool)

// DefaultEnvLookup delegates to os.LookupEnv.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Overrides are explicit caller values, typically CLI flags. Nil fields are ignored.
type Overrides struct {
	Provider     *string
	Model        *string
	BaseURL      *string
	APIKey       *string
	Port         *string
	DataDir      *string
	OutputDir    *string
	TemplatePath *string
	LogLevel     *string
	LogFormat    *string
}

// Option customises the loader behaviour.
type Option func(*loadOptions)

type loadOptions struct {
	envLookup  EnvLookup
	readFile   func(string) ([]byte, error)
	homeDir    func() (string, error)
	overrides  Overrides
	configPath string
}

// WithEnv supplies a custom environment lookup implementation.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithOverrides applies caller overrides that take highest precedence.
func WithOverrides(overrides Overrides) Option {
	return func(o *loadOptions) { o.overrides = overrides }
}

// WithConfigPath forces the loader to read configuration from a specific file.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) { o.configPath = path }
}

// WithFileReader injects a custom reader, used primarily for tests.
func WithFileReader(reader func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = reader }
}

// WithHomeDir overrides how the loader resolves the user's home directory.
func WithHomeDir(resolver func() (string, error)) Option {
	return func(o *loadOptions) { o.homeDir = resolver }
}

// Load merges defaults, file, environment and overrides, in that order.
func Load(opts ...Option) (Config, Metadata, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
		homeDir:   os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()
	meta := Metadata{sources: map[string]ValueSource{}, loadedAt: time.Now()}

	if err := applyFile(&cfg, &meta, options); err != nil {
		return Config{}, Metadata{}, err
	}
	if err := applyEnv(&cfg, &meta, options.envLookup); err != nil {
		return Config{}, Metadata{}, err
	}
	applyOverrides(&cfg, &meta, options.overrides)

	resolveProvider(&cfg, &meta)
	if err := cfg.Observability.Validate(); err != nil {
		return Config{}, Metadata{}, err
	}
	return cfg, meta, nil
}

func resolveConfigPath(options loadOptions) string {
	if path := strings.TrimSpace(options.configPath); path != "" {
		return path
	}
	if path, ok := options.envLookup("CASSANDRA_CONFIG"); ok && strings.TrimSpace(path) != "" {
		return strings.TrimSpace(path)
	}
	home, err := options.homeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".cassandra", "config.yaml")
}

func applyFile(cfg *Config, meta *Metadata, options loadOptions) error {
	path := resolveConfigPath(options)
	meta.path = path
	if path == "" {
		return nil
	}
	data, err := options.readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	expanded := os.Expand(string(data), func(key string) string {
		value, _ := options.envLookup(key)
		return value
	})

	var parsed struct {
		LLM           map[string]any `yaml:"llm"`
		Pexels        map[string]any `yaml:"pexels"`
		Server        map[string]any `yaml:"server"`
		Storage       map[string]any `yaml:"storage"`
		Deck          map[string]any `yaml:"deck"`
		Observability map[string]any `yaml:"observability"`
	}
	if err := yaml.Unmarshal([]byte(expanded), &parsed); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	// Decode onto the defaults so absent keys keep their value.
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	sections := map[string]map[string]any{
		"llm":           parsed.LLM,
		"pexels":        parsed.Pexels,
		"server":        parsed.Server,
		"storage":       parsed.Storage,
		"deck":          parsed.Deck,
		"observability": parsed.Observability,
	}
	for section, fields := range sections {
		for key := range fields {
			meta.sources[section+"."+key] = SourceFile
		}
	}
	return nil
}

func applyEnv(cfg *Config, meta *Metadata, lookup EnvLookup) error {
	get := func(keys ...string) (string, bool) {
		for _, key := range keys {
			if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value), true
			}
		}
		return "", false
	}
	set := func(field string, dst *string, keys ...string) {
		if value, ok := get(keys...); ok {
			*dst = value
			meta.sources[field] = SourceEnv
		}
	}

	if value, ok := get("PPT_API_TYPE"); ok {
		cfg.LLM.Provider = strings.ToLower(value)
		meta.sources["llm.provider"] = SourceEnv
	}
	if value, ok := get("PPT_USE_CEREBRAS"); ok {
		useCerebras, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("PPT_USE_CEREBRAS: %w", err)
		}
		if useCerebras {
			cfg.LLM.Provider = ProviderCerebras
			meta.sources["llm.provider"] = SourceEnv
		}
	}
	set("llm.provider", &cfg.LLM.Provider, "LLM_PROVIDER")
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)

	switch cfg.LLM.Provider {
	case ProviderGroq:
		set("llm.api_key", &cfg.LLM.APIKey, "PPT_GROQ_API_KEY", "GROQ_API_KEY")
		set("llm.model", &cfg.LLM.Model, "PPT_GROQ_MODEL")
	case ProviderCerebras:
		set("llm.api_key", &cfg.LLM.APIKey, "PPT_CEREBRAS_API_KEY", "CEREBRAS_API_KEY")
		set("llm.model", &cfg.LLM.Model, "PPT_CEREBRAS_MODEL")
	case ProviderOpenAI:
		set("llm.api_key", &cfg.LLM.APIKey, "OPENAI_API_KEY")
	}
	set("llm.api_key", &cfg.LLM.APIKey, "LLM_API_KEY")
	set("llm.model", &cfg.LLM.Model, "LLM_MODEL")
	set("llm.base_url", &cfg.LLM.BaseURL, "LLM_BASE_URL")

	set("pexels.api_key", &cfg.Pexels.APIKey, "PEXELS_API_KEY")
	set("server.port", &cfg.Server.Port, "PORT")
	set("storage.data_dir", &cfg.Storage.DataDir, "CASSANDRA_DATA_DIR")
	set("storage.output_dir", &cfg.Storage.OutputDir, "CASSANDRA_OUTPUT_DIR")
	set("deck.template_path", &cfg.Deck.TemplatePath, "CASSANDRA_TEMPLATE")
	set("observability.logging.level", &cfg.Observability.Logging.Level, "CASSANDRA_LOG_LEVEL")
	return nil
}

func applyOverrides(cfg *Config, meta *Metadata, overrides Overrides) {
	apply := func(field string, dst *string, value *string) {
		if value == nil {
			return
		}
		*dst = *value
		meta.sources[field] = SourceOverride
	}
	apply("llm.provider", &cfg.LLM.Provider, overrides.Provider)
	apply("llm.model", &cfg.LLM.Model, overrides.Model)
	apply("llm.base_url", &cfg.LLM.BaseURL, overrides.BaseURL)
	apply("llm.api_key", &cfg.LLM.APIKey, overrides.APIKey)
	apply("server.port", &cfg.Server.Port, overrides.Port)
	apply("storage.data_dir", &cfg.Storage.DataDir, overrides.DataDir)
	apply("storage.output_dir", &cfg.Storage.OutputDir, overrides.OutputDir)
	apply("deck.template_path", &cfg.Deck.TemplatePath, overrides.TemplatePath)
	apply("observability.logging.level", &cfg.Observability.Logging.Level, overrides.LogLevel)
	apply("observability.logging.format", &cfg.Observability.Logging.Format, overrides.LogFormat)
}

// resolveProvider fills provider defaults and drops to the mock provider when
// no credential is available, so every component takes its local fallback.
func resolveProvider(cfg *Config, meta *Metadata) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGroq
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider != ProviderMock {
		cfg.LLM.Provider = ProviderMock
		cfg.LLM.Model = ""
		cfg.LLM.BaseURL = ""
		meta.sources["llm.provider"] = SourceDefault
	}
	if defaults, ok := DefaultsFor(cfg.LLM.Provider); ok {
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = defaults.BaseURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = defaults.Model
		}
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		cfg.LLM.TimeoutSeconds = 30
	}
	if cfg.Pexels.TimeoutSeconds <= 0 {
		cfg.Pexels.TimeoutSeconds = 10
	}
	if cfg.Deck.BulletGlyph == "" {
		cfg.Deck.BulletGlyph = "➣"
	}
}
