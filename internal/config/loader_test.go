package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func noFile(string) ([]byte, error) { return nil, os.ErrNotExist }

func TestLoadWithoutKeyFallsBackToMock(t *testing.T) {
	t.Parallel()

	cfg, meta, err := Load(WithEnv(envMap(nil)), WithFileReader(noFile))
	require.NoError(t, err)

	assert.Equal(t, ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, "mock", cfg.LLM.Model)
	assert.Equal(t, SourceDefault, meta.Source("llm.provider"))
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Storage.MaxAgeMinutes)
	assert.Equal(t, 10, cfg.Storage.SweepIntervalMinutes)
	assert.Equal(t, "➣", cfg.Deck.BulletGlyph)
}

func TestLoadGroqFromEnv(t *testing.T) {
	t.Parallel()

	cfg, meta, err := Load(WithEnv(envMap(map[string]string{
		"GROQ_API_KEY":   "gsk_test",
		"PPT_GROQ_MODEL": "llama-3.1-8b-instant",
		"PEXELS_API_KEY": "px",
		"PORT":           "8080",
	})), WithFileReader(noFile))
	require.NoError(t, err)

	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "px", cfg.Pexels.APIKey)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceEnv, meta.Source("llm.api_key"))
}

func TestLoadCerebrasSwitch(t *testing.T) {
	t.Parallel()

	cfg, _, err := Load(WithEnv(envMap(map[string]string{
		"PPT_USE_CEREBRAS":     "true",
		"PPT_CEREBRAS_API_KEY": "csk",
		"GROQ_API_KEY":         "ignored",
	})), WithFileReader(noFile))
	require.NoError(t, err)

	assert.Equal(t, ProviderCerebras, cfg.LLM.Provider)
	assert.Equal(t, "csk", cfg.LLM.APIKey)
	assert.Equal(t, "llama-3.3-70b", cfg.LLM.Model)
	assert.Equal(t, "https://api.cerebras.ai/v1", cfg.LLM.BaseURL)
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Parallel()

	_, _, err := Load(WithEnv(envMap(map[string]string{"PPT_USE_CEREBRAS": "maybe"})), WithFileReader(noFile))
	require.Error(t, err)
}

func TestLoadFileInterpolatesEnvAndKeepsDefaults(t *testing.T) {
	t.Parallel()

	yamlText := `
llm:
  provider: openai
  api_key: ${OPENAI_TOKEN}
  model: gpt-4o
storage:
  output_dir: /tmp/decks
observability:
  logging:
    level: debug
`
	reader := func(path string) ([]byte, error) {
		require.Equal(t, "/etc/cassandra.yaml", path)
		return []byte(yamlText), nil
	}
	cfg, meta, err := Load(
		WithConfigPath("/etc/cassandra.yaml"),
		WithFileReader(reader),
		WithEnv(envMap(map[string]string{"OPENAI_TOKEN": "sk-file"})),
	)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "/tmp/decks", cfg.Storage.OutputDir)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "text", cfg.Observability.Logging.Format)
	assert.Equal(t, SourceFile, meta.Source("storage.output_dir"))
	assert.Equal(t, "/etc/cassandra.yaml", meta.ConfigPath())
}

func TestLoadOverridesWin(t *testing.T) {
	t.Parallel()

	port := "9000"
	key := "override-key"
	cfg, meta, err := Load(
		WithEnv(envMap(map[string]string{"PORT": "8080", "GROQ_API_KEY": "env"})),
		WithFileReader(noFile),
		WithOverrides(Overrides{Port: &port, APIKey: &key}),
	)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "override-key", cfg.LLM.APIKey)
	assert.Equal(t, SourceOverride, meta.Source("server.port"))
}

func TestLoadDefaultPathUnderHome(t *testing.T) {
	t.Parallel()

	var seen string
	_, meta, err := Load(
		WithEnv(envMap(nil)),
		WithHomeDir(func() (string, error) { return "/home/u", nil }),
		WithFileReader(func(path string) ([]byte, error) {
			seen = path
			return nil, os.ErrNotExist
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.cassandra/config.yaml", seen)
	assert.Equal(t, seen, meta.ConfigPath())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	_, _, err := Load(
		WithEnv(envMap(nil)),
		WithConfigPath("bad.yaml"),
		WithFileReader(func(string) ([]byte, error) { return []byte("llm: [unterminated"), nil }),
	)
	require.Error(t, err)
}
