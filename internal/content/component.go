package content

import (
	"cassandra/internal/llm"
	"cassandra/internal/logging"
	"cassandra/internal/observability"
)

// Option configures a planner, synthesizer or refiner.
type Option func(*deps)

type deps struct {
	client  llm.Client
	logger  logging.Logger
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

// WithLogger sets the component logger.
func WithLogger(logger logging.Logger) Option {
	return func(d *deps) { d.logger = logger }
}

// WithMetrics records fallbacks and refine ratios on m.
func WithMetrics(m *observability.MetricsCollector) Option {
	return func(d *deps) { d.metrics = m }
}

// WithTracer wraps operations in spans.
func WithTracer(tp *observability.TracerProvider) Option {
	return func(d *deps) { d.tracer = tp }
}

func newDeps(client llm.Client, component string, opts []Option) deps {
	d := deps{client: client}
	for _, opt := range opts {
		opt(&d)
	}
	if logging.IsNil(d.logger) {
		d.logger = logging.NewComponentLogger(component)
	}
	if d.client == nil {
		d.client = &llm.MockClient{}
	}
	return d
}
