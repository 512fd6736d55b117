package llm

import (
	"context"
	"time"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/logging"
	"cassandra/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

type kindKey struct{}

// WithKind labels completions made with ctx (plan, synthesize, refine, titles).
func WithKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, kindKey{}, kind)
}

func kindFrom(ctx context.Context) string {
	if kind, ok := ctx.Value(kindKey{}).(string); ok && kind != "" {
		return kind
	}
	return "other"
}

// Instrumented wraps a Client with spans, metrics and a log line per failure.
type Instrumented struct {
	next    Client
	model   string
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
	logger  logging.Logger

	// CountTokens estimates prompt size; defaults to CountTokens.
	CountTokens func(string) int
}

// NewInstrumented wraps next. metrics and tracer may be nil.
func NewInstrumented(next Client, model string, metrics *observability.MetricsCollector, tracer *observability.TracerProvider, logger logging.Logger) *Instrumented {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("llm")
	}
	return &Instrumented{
		next:        next,
		model:       model,
		metrics:     metrics,
		tracer:      tracer,
		logger:      logger,
		CountTokens: CountTokens,
	}
}

func (c *Instrumented) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	kind := kindFrom(ctx)
	ctx, span := c.tracer.StartSpan(ctx, observability.SpanLLMRequest,
		attribute.String(observability.AttrModel, c.model),
		attribute.Int(observability.AttrMaxTokens, maxTokens),
		attribute.String("cassandra.llm.kind", kind),
	)
	defer span.End()

	start := time.Now()
	out, err := c.next.Complete(ctx, prompt, maxTokens)
	latency := time.Since(start)

	status := "ok"
	switch {
	case err != nil:
		status = cerrors.KindOf(err).String()
		observability.MarkError(span, err)
		logging.FromContext(ctx, c.logger).Warn("%s completion failed after %s: %v", kind, latency.Round(time.Millisecond), err)
	case out == "":
		status = "empty"
	}
	tokens := 0
	if c.CountTokens != nil {
		tokens = c.CountTokens(prompt)
	}
	c.metrics.RecordLLMRequest(ctx, kind, status, latency, tokens)
	return out, err
}
