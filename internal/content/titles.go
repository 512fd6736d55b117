package content

import (
	"context"
	"fmt"
	"strings"

	"cassandra/internal/llm"
)

const refineTitlesMaxTokens = 600

// RefineTitles tidies user-typed titles into presentation headings. The
// model's answer is used only when it has exactly as many entries as the
// input; otherwise the trimmed originals come back.
func (p *Planner) RefineTitles(ctx context.Context, titles []string, topic string) []string {
	originals := make([]string, 0, len(titles))
	for _, title := range titles {
		if title = strings.TrimSpace(title); title != "" {
			originals = append(originals, title)
		}
	}
	if len(originals) == 0 {
		return originals
	}

	raw, err := p.client.Complete(llm.WithKind(ctx, "titles"), refineTitlesPrompt(originals, topic), refineTitlesMaxTokens)
	if err == nil {
		var refined []string
		refined, err = parseTitles(raw)
		if err == nil && len(refined) != len(originals) {
			err = fmt.Errorf("model returned %d titles, want %d", len(refined), len(originals))
		}
		if err == nil {
			return refined
		}
	}
	p.logger.Warn("keeping user titles as typed: %v", err)
	p.metrics.RecordFallback(ctx, "titles")
	return originals
}
