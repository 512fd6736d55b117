package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cassandra/internal/llm"
	"cassandra/internal/observability"

	"github.com/kaptinlin/jsonrepair"
	"go.opentelemetry.io/otel/attribute"
)

const (
	planMaxTokens = 600
	// planTolerance is how far the model's count may drift before the
	// answer is discarded in favour of the static plan.
	planTolerance = 2
)

// fallbackMiddle is drawn on, in order, whenever the body of a plan is short.
var fallbackMiddle = []string{
	"HISTORY AND BACKGROUND",
	"KEY CONCEPTS",
	"CORE COMPONENTS",
	"HOW IT WORKS",
	"TOOLS AND TECHNOLOGIES",
	"TYPES AND CATEGORIES",
	"IMPLEMENTATION DETAILS",
	"PRACTICAL EXAMPLES",
	"REAL WORLD APPLICATIONS",
}

// Planner asks the model for slide titles and keeps the deck frame intact:
// introduction and abstract first, advantages, disadvantages, future scope
// and conclusion last.
type Planner struct {
	deps
}

// NewPlanner builds a planner on client. A nil client always falls back.
func NewPlanner(client llm.Client, opts ...Option) *Planner {
	return &Planner{deps: newDeps(client, "planner", opts)}
}

// Plan returns exactly n titles for topic. It never fails: any model
// problem yields the static plan from Fallback.
func (p *Planner) Plan(ctx context.Context, topic string, n int) []string {
	ctx, span := p.tracer.StartSpan(ctx, observability.SpanPlan,
		attribute.String(observability.AttrTopic, topic),
		attribute.Int(observability.AttrSlideCount, n),
	)
	defer span.End()

	raw, err := p.client.Complete(llm.WithKind(ctx, "plan"), planPrompt(topic, n), planMaxTokens)
	if err == nil {
		var titles []string
		titles, err = parseTitles(raw)
		if err == nil && abs(len(titles)-n) > planTolerance {
			err = fmt.Errorf("model returned %d titles, want %d", len(titles), n)
		}
		if err == nil {
			return normalizeFrame(titles, topic, n)
		}
	}

	p.logger.Warn("topic plan for %q fell back to static titles: %v", topic, err)
	observability.MarkError(span, err)
	span.SetAttributes(attribute.Bool(observability.AttrFallback, true))
	p.metrics.RecordFallback(ctx, "planner")
	return Fallback(topic, n)
}

// Fallback is the static plan used when the model cannot be reached.
func Fallback(topic string, n int) []string {
	return normalizeFrame(nil, topic, n)
}

// parseTitles pulls the first bracketed array out of raw and decodes it.
// Items may be strings or objects with a title field.
func parseTitles(raw string) ([]string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}
	fragment := raw[start : end+1]
	repaired, err := jsonrepair.JSONRepair(fragment)
	if err != nil {
		return nil, fmt.Errorf("repair titles: %w", err)
	}

	var items []any
	if err := json.Unmarshal([]byte(repaired), &items); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		var title string
		switch v := item.(type) {
		case string:
			title = v
		case map[string]any:
			title, _ = v["title"].(string)
		}
		if title = strings.TrimSpace(title); title != "" {
			titles = append(titles, title)
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("empty title list")
	}
	return titles, nil
}

type frame struct {
	intro, abstract, advantages, disadvantages, future, conclusion string
	middle                                                         []string
}

// slotRule describes how one fixed title is recognised. Exact titles win
// over keyword matches; tail slots scan from the end of the plan so an early
// body title that merely mentions the keyword keeps its place.
type slotRule struct {
	exact   []string
	leading bool // exact titles may continue with " TO <subject>"
	keyword func(lower string) bool
	fromEnd bool
}

func containsWord(word string) func(string) bool {
	return func(lower string) bool { return strings.Contains(lower, word) }
}

var (
	conclusionRule = slotRule{
		exact:   []string{"CONCLUSION", "CONCLUSIONS"},
		keyword: containsWord("conclusion"),
		fromEnd: true,
	}
	disadvantagesRule = slotRule{
		exact:   []string{"DISADVANTAGES"},
		keyword: containsWord("disadvantage"),
		fromEnd: true,
	}
	advantagesRule = slotRule{
		exact: []string{"ADVANTAGES"},
		keyword: func(lower string) bool {
			return strings.Contains(lower, "advantage") && !strings.Contains(lower, "disadvantage")
		},
		fromEnd: true,
	}
	futureRule = slotRule{
		exact:   []string{"FUTURE SCOPE"},
		keyword: containsWord("future"),
		fromEnd: true,
	}
	introRule = slotRule{
		exact:   []string{"INTRODUCTION", "INTRO"},
		leading: true,
		keyword: containsWord("introduction"),
	}
	abstractRule = slotRule{
		exact:   []string{"ABSTRACT"},
		keyword: containsWord("abstract"),
	}
)

func titleKey(title string) string {
	return strings.ToUpper(strings.Join(strings.Fields(title), " "))
}

func classify(titles []string) frame {
	var uniq []string
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		key := titleKey(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, title)
	}

	taken := make([]bool, len(uniq))
	pick := func(rule slotRule) string {
		order := make([]int, len(uniq))
		for i := range order {
			order[i] = i
			if rule.fromEnd {
				order[i] = len(uniq) - 1 - i
			}
		}
		match := func(ok func(title string) bool) string {
			for _, i := range order {
				if !taken[i] && ok(uniq[i]) {
					taken[i] = true
					return uniq[i]
				}
			}
			return ""
		}
		exact := func(title string) bool {
			key := titleKey(title)
			for _, want := range rule.exact {
				if key == want || (rule.leading && strings.HasPrefix(key, want+" TO ")) {
					return true
				}
			}
			return false
		}
		if title := match(exact); title != "" {
			return title
		}
		return match(func(title string) bool { return rule.keyword(strings.ToLower(title)) })
	}

	f := frame{
		conclusion:    pick(conclusionRule),
		disadvantages: pick(disadvantagesRule),
		advantages:    pick(advantagesRule),
		future:        pick(futureRule),
		intro:         pick(introRule),
		abstract:      pick(abstractRule),
	}
	for i, title := range uniq {
		if !taken[i] {
			f.middle = append(f.middle, title)
		}
	}
	return f
}

// normalizeFrame fits titles to exactly n entries with the fixed head and
// tail in place. Missing fixed titles get their default wording and the body
// is trimmed or padded from the fallback pool.
func normalizeFrame(titles []string, topic string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	f := classify(titles)
	orDefault := func(title, def string) string {
		if title == "" {
			return def
		}
		return title
	}
	head := []string{
		orDefault(f.intro, "INTRODUCTION TO "+strings.ToUpper(strings.TrimSpace(topic))),
		orDefault(f.abstract, "ABSTRACT"),
	}
	tail := []string{
		orDefault(f.advantages, "ADVANTAGES"),
		orDefault(f.disadvantages, "DISADVANTAGES"),
		orDefault(f.future, "FUTURE SCOPE"),
	}
	conclusion := orDefault(f.conclusion, "CONCLUSION")

	fixed := len(head) + len(tail) + 1
	if n < fixed {
		out := append(append([]string{}, head...), tail...)[:n-1]
		return append(out, conclusion)
	}

	middle := fitMiddle(f.middle, n-fixed)
	out := make([]string, 0, n)
	out = append(out, head...)
	out = append(out, middle...)
	out = append(out, tail...)
	return append(out, conclusion)
}

func fitMiddle(middle []string, want int) []string {
	if len(middle) >= want {
		return middle[:want]
	}
	used := make(map[string]bool, len(middle))
	for _, title := range middle {
		used[strings.ToUpper(title)] = true
	}
	out := append([]string{}, middle...)
	for _, title := range fallbackMiddle {
		if len(out) == want {
			return out
		}
		if !used[title] {
			out = append(out, title)
		}
	}
	for len(out) < want {
		out = append(out, fmt.Sprintf("TOPIC %d", len(out)+1))
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
