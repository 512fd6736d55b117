package content

import (
	"context"
	"strings"

	"cassandra/internal/domain/slide"
	"cassandra/internal/llm"
	"cassandra/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	paragraphMaxTokens = 500
	abstractMaxTokens  = 400
	bulletMaxTokens    = 500
)

// Synthesizer writes the body of a single slide.
type Synthesizer struct {
	deps
}

func NewSynthesizer(client llm.Client, opts ...Option) *Synthesizer {
	return &Synthesizer{deps: newDeps(client, "synthesizer", opts)}
}

// Synthesize returns cleaned content for title and the style it was written
// in. A failed or empty completion yields canned text of the same style.
func (s *Synthesizer) Synthesize(ctx context.Context, title, topic string, mode slide.Mode) (string, slide.Style) {
	style := mode.Resolve(title)
	ctx, span := s.tracer.StartSpan(ctx, observability.SpanSynthesize,
		attribute.String(observability.AttrTopic, topic),
		attribute.String(observability.AttrStyle, string(style)),
	)
	defer span.End()

	abstract := style == slide.StyleParagraph && strings.Contains(strings.ToLower(title), "abstract")
	var (
		prompt    string
		maxTokens int
	)
	switch {
	case abstract:
		prompt, maxTokens = abstractPrompt(topic), abstractMaxTokens
	case style == slide.StyleParagraph:
		prompt, maxTokens = paragraphPrompt(title, topic), paragraphMaxTokens
	default:
		prompt, maxTokens = bulletPrompt(title, topic), bulletMaxTokens
	}

	raw, err := s.client.Complete(llm.WithKind(ctx, "synthesize"), prompt, maxTokens)
	if err == nil && strings.TrimSpace(raw) != "" {
		if style == slide.StyleParagraph {
			return CleanParagraph(raw), style
		}
		return FormatBullets(raw), style
	}

	if err != nil {
		s.logger.Warn("content for %q fell back to canned %s: %v", title, style, err)
		observability.MarkError(span, err)
	} else {
		s.logger.Warn("content for %q fell back to canned %s: empty completion", title, style)
	}
	span.SetAttributes(attribute.Bool(observability.AttrFallback, true))
	s.metrics.RecordFallback(ctx, "synthesizer")

	switch {
	case abstract:
		return CleanParagraph(cannedAbstract(topic)), style
	case style == slide.StyleParagraph:
		return CleanParagraph(cannedParagraph(title, topic)), style
	default:
		return DefaultBullets(topic), style
	}
}

// Fill synthesizes content for every title in order.
func (s *Synthesizer) Fill(ctx context.Context, titles []string, topic string, mode slide.Mode) []slide.Plan {
	plans := make([]slide.Plan, 0, len(titles))
	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}
		content, style := s.Synthesize(ctx, title, topic, mode)
		plans = append(plans, slide.Plan{Title: title, Content: content, Style: style})
	}
	return plans
}
