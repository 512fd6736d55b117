package observability

import (
	"context"
	"errors"
	"io"
)

// Observability bundles the process-wide logger, metrics and tracer.
type Observability struct {
	Logger  *Logger
	Metrics *MetricsCollector
	Tracer  *TracerProvider
}

// New builds the bundle described by cfg. Log output goes to out.
func New(ctx context.Context, cfg Config, out io.Writer) (*Observability, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := NewLogger(LogConfig{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: out})
	metrics, err := NewMetricsCollector(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	tracer, err := NewTracerProvider(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}
	return &Observability{Logger: logger, Metrics: metrics, Tracer: tracer}, nil
}

// Shutdown flushes metrics and spans.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	return errors.Join(o.Metrics.Shutdown(ctx), o.Tracer.Shutdown(ctx))
}
