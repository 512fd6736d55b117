package content

import (
	"context"
	"strings"

	"cassandra/internal/diff"
	"cassandra/internal/domain/slide"
	"cassandra/internal/llm"
	"cassandra/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	refineParagraphMaxTokens = 400
	refineBulletMaxTokens    = 500
	refineExcerptRunes       = 200
)

// Refiner regenerates content for a slide the user already has.
type Refiner struct {
	deps
}

func NewRefiner(client llm.Client, opts ...Option) *Refiner {
	return &Refiner{deps: newDeps(client, "refiner", opts)}
}

// Refine returns new content for title in the given style. When the model
// fails or answers with nothing, current is returned unchanged.
func (r *Refiner) Refine(ctx context.Context, title, current, topic string, style slide.Style) string {
	if style != slide.StyleParagraph {
		style = slide.StyleBullet
	}
	ctx, span := r.tracer.StartSpan(ctx, observability.SpanRefine,
		attribute.String(observability.AttrTopic, topic),
		attribute.String(observability.AttrStyle, string(style)),
	)
	defer span.End()

	var raw string
	var err error
	refineCtx := llm.WithKind(ctx, "refine")
	if style == slide.StyleParagraph {
		excerpt := current
		if runes := []rune(excerpt); len(runes) > refineExcerptRunes {
			excerpt = string(runes[:refineExcerptRunes])
		}
		raw, err = r.client.Complete(refineCtx, refineParagraphPrompt(title, excerpt, topic), refineParagraphMaxTokens)
	} else {
		raw, err = r.client.Complete(refineCtx, refineBulletPrompt(title, topic), refineBulletMaxTokens)
	}
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			observability.MarkError(span, err)
		}
		r.logger.Warn("refine %q kept current content: err=%v", title, err)
		span.SetAttributes(attribute.Bool(observability.AttrFallback, true))
		r.metrics.RecordFallback(ctx, "refiner")
		return current
	}

	var refined string
	if style == slide.StyleParagraph {
		refined = CleanParagraph(raw)
	} else {
		refined = FormatBullets(raw)
	}

	change := diff.Compare(current, refined)
	r.metrics.RecordRefineChange(ctx, string(style), change.Ratio)
	r.logger.Info("refined %q (%s): change ratio %.2f, +%d/-%d lines",
		title, style, change.Ratio, change.AddedLines, change.DeletedLines)
	return refined
}
