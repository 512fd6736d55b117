package bootstrap

import (
	"errors"
	"os"
	"strings"
	"time"

	"cassandra/internal/config"
	"cassandra/internal/logging"
)

// LogConfiguration prints a redacted snapshot of the resolved configuration.
func LogConfiguration(logger logging.Logger, cfg config.Config, meta config.Metadata) {
	logger = logging.OrNop(logger)
	logger.Info("=== Cassandra Configuration ===")

	if path := meta.ConfigPath(); path != "" {
		if info, err := os.Stat(path); err == nil {
			logger.Info("Config file: %s (mtime %s)", path, info.ModTime().UTC().Format(time.RFC3339))
		} else if errors.Is(err, os.ErrNotExist) {
			logger.Info("Config file: %s (absent, using defaults and environment)", path)
		} else {
			logger.Warn("Config file stat failed: %v", err)
		}
	}

	logger.Info("LLM Provider: %s (source=%s)", cfg.LLM.Provider, meta.Source("llm.provider"))
	logger.Info("LLM Model: %s (source=%s)", cfg.LLM.Model, meta.Source("llm.model"))
	logger.Info("Base URL: %s (source=%s)", cfg.LLM.BaseURL, meta.Source("llm.base_url"))
	logger.Info("API Key: %s", keyState(cfg.LLM.APIKey, meta.Source("llm.api_key")))
	logger.Info("Pexels Key: %s", keyState(cfg.Pexels.APIKey, meta.Source("pexels.api_key")))
	logger.Info("Port: %s (source=%s)", cfg.Server.Port, meta.Source("server.port"))
	logger.Info("Rate limit: %d/min burst %d", cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst)
	logger.Info("Output dir: %s, data dir: %s", cfg.Storage.OutputDir, cfg.Storage.DataDir)
	if cfg.Deck.TemplatePath != "" {
		logger.Info("Template: %s", cfg.Deck.TemplatePath)
	}
	logger.Info("Tracing: enabled=%t exporter=%s", cfg.Observability.Tracing.Enabled, cfg.Observability.Tracing.Exporter)
	logger.Info("===============================")
}

func keyState(key string, source config.ValueSource) string {
	if strings.TrimSpace(key) == "" {
		return "(not set)"
	}
	return "(set; source=" + string(source) + ")"
}
