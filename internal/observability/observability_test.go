package observability

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWithContextAddsLogID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: buf})

	ctx := ContextWithLogID(context.Background(), "log-123")
	logger.WithContext(ctx).Info("deck written", "slides", 11)

	out := buf.String()
	assert.Contains(t, out, `"log_id":"log-123"`)
	assert.Contains(t, out, `"slides":11`)
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogConfig{Level: "warn", Output: buf})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSanitizeAPIKey(t *testing.T) {
	assert.Equal(t, "***", SanitizeAPIKey("short"))
	assert.Equal(t, "gsk_ab...wxyz", SanitizeAPIKey("gsk_abcdefghijklmnopwxyz"))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "jaeger"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	require.Error(t, cfg.Validate())
}

func TestMetricsHandlerExposesInstruments(t *testing.T) {
	m, err := NewMetricsCollector(MetricsConfig{Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	ctx := context.Background()
	m.RecordLLMRequest(ctx, "plan", "ok", 120*time.Millisecond, 42)
	m.RecordFallback(ctx, "synthesizer")
	m.RecordDeck(ctx, 11)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	assert.True(t, strings.Contains(text, "cassandra_llm_requests_total"), text)
	assert.Contains(t, text, "cassandra_content_fallbacks_total")
	assert.Contains(t, text, "cassandra_decks_generated_total")
}

func TestDisabledCollectorIsSafe(t *testing.T) {
	var nilCollector *MetricsCollector
	nilCollector.RecordDeck(context.Background(), 3)

	m, err := NewMetricsCollector(MetricsConfig{Enabled: false})
	require.NoError(t, err)
	m.RecordSweep(context.Background(), 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDisabledTracingIsNoop(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), TracingConfig{})
	require.NoError(t, err)
	_, span := tp.StartSpan(ContextWithLogID(context.Background(), "x"), SpanPlan)
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))
}
