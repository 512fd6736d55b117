package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig configures the metrics collector
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MetricsCollector owns the instruments recorded by the deck pipeline. A
// disabled or nil collector accepts every Record call and drops it.
type MetricsCollector struct {
	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry

	llmRequests     metric.Int64Counter
	llmLatency      metric.Float64Histogram
	llmPromptTokens metric.Int64Counter
	fallbacks       metric.Int64Counter
	decksGenerated  metric.Int64Counter
	deckSlides      metric.Int64Histogram
	sweeperDeleted  metric.Int64Counter
	refineChange    metric.Float64Histogram
}

// NewMetricsCollector creates a new metrics collector backed by a private
// Prometheus registry.
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter("cassandra")

	m := &MetricsCollector{provider: provider, registry: registry}
	if m.llmRequests, err = meter.Int64Counter("cassandra.llm.requests.total",
		metric.WithDescription("Completion requests by kind and outcome"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("llm requests counter: %w", err)
	}
	if m.llmLatency, err = meter.Float64Histogram("cassandra.llm.latency",
		metric.WithDescription("Completion latency"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("llm latency histogram: %w", err)
	}
	if m.llmPromptTokens, err = meter.Int64Counter("cassandra.llm.prompt_tokens",
		metric.WithDescription("Estimated prompt tokens sent"),
		metric.WithUnit("{token}")); err != nil {
		return nil, fmt.Errorf("llm prompt tokens counter: %w", err)
	}
	if m.fallbacks, err = meter.Int64Counter("cassandra.content.fallbacks.total",
		metric.WithDescription("Canned content used in place of model output"),
		metric.WithUnit("{fallback}")); err != nil {
		return nil, fmt.Errorf("fallbacks counter: %w", err)
	}
	if m.decksGenerated, err = meter.Int64Counter("cassandra.decks.generated.total",
		metric.WithDescription("Decks written"),
		metric.WithUnit("{deck}")); err != nil {
		return nil, fmt.Errorf("decks counter: %w", err)
	}
	if m.deckSlides, err = meter.Int64Histogram("cassandra.deck.slides",
		metric.WithDescription("Slides per generated deck"),
		metric.WithUnit("{slide}")); err != nil {
		return nil, fmt.Errorf("deck slides histogram: %w", err)
	}
	if m.sweeperDeleted, err = meter.Int64Counter("cassandra.sweeper.deleted.total",
		metric.WithDescription("Expired output files removed"),
		metric.WithUnit("{file}")); err != nil {
		return nil, fmt.Errorf("sweeper counter: %w", err)
	}
	if m.refineChange, err = meter.Float64Histogram("cassandra.refine.change_ratio",
		metric.WithDescription("Share of characters changed by a refinement")); err != nil {
		return nil, fmt.Errorf("refine histogram: %w", err)
	}
	return m, nil
}

// Handler serves the Prometheus exposition for this collector.
func (m *MetricsCollector) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics disabled", http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes the meter provider.
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

// RecordLLMRequest records one completion call.
func (m *MetricsCollector) RecordLLMRequest(ctx context.Context, kind, status string, latency time.Duration, promptTokens int) {
	if m == nil || m.llmRequests == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("kind", kind), attribute.String("status", status))
	m.llmRequests.Add(ctx, 1, attrs)
	m.llmLatency.Record(ctx, latency.Seconds(), attrs)
	m.llmPromptTokens.Add(ctx, int64(promptTokens), metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordFallback counts a canned-content substitution.
func (m *MetricsCollector) RecordFallback(ctx context.Context, component string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

// RecordDeck records a written deck and its slide count.
func (m *MetricsCollector) RecordDeck(ctx context.Context, slides int) {
	if m == nil || m.decksGenerated == nil {
		return
	}
	m.decksGenerated.Add(ctx, 1)
	m.deckSlides.Record(ctx, int64(slides))
}

// RecordSweep counts files removed by the sweeper.
func (m *MetricsCollector) RecordSweep(ctx context.Context, deleted int) {
	if m == nil || m.sweeperDeleted == nil || deleted == 0 {
		return
	}
	m.sweeperDeleted.Add(ctx, int64(deleted))
}

// RecordRefineChange records how much of a slide a refinement rewrote.
func (m *MetricsCollector) RecordRefineChange(ctx context.Context, style string, ratio float64) {
	if m == nil || m.refineChange == nil {
		return
	}
	m.refineChange.Record(ctx, ratio, metric.WithAttributes(attribute.String("style", style)))
}
