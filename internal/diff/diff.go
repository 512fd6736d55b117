// Package diff compares two versions of slide content for the refine flow.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result summarises how a refinement changed a slide.
type Result struct {
	// Ratio is the character edit distance over the longer text, in [0,1].
	Ratio        float64
	AddedLines   int
	DeletedLines int
}

// Compare diffs old against updated.
func Compare(old, updated string) Result {
	if old == updated {
		return Result{}
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, updated, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	longer := max(len([]rune(old)), len([]rune(updated)))
	ratio := 0.0
	if longer > 0 {
		ratio = float64(dmp.DiffLevenshtein(diffs)) / float64(longer)
	}
	if ratio > 1 {
		ratio = 1
	}

	added, deleted := lineChanges(old, updated)
	return Result{Ratio: ratio, AddedLines: added, DeletedLines: deleted}
}

// ChangeRatio is Compare(old, updated).Ratio.
func ChangeRatio(old, updated string) float64 {
	return Compare(old, updated).Ratio
}

// Render prints a line diff: removed lines prefixed "-", new lines "+",
// unchanged lines indented. Colour is applied when colored is true.
func Render(old, updated string, colored bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, updated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				out.WriteString(paint(red, "- "+line, colored))
			case diffmatchpatch.DiffInsert:
				out.WriteString(paint(green, "+ "+line, colored))
			default:
				out.WriteString("  " + line)
			}
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func lineChanges(old, updated string) (added, deleted int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, updated)
	for _, d := range dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += len(splitLines(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len(splitLines(d.Text))
		}
	}
	return added, deleted
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func paint(c *color.Color, text string, enabled bool) string {
	if !enabled {
		return text
	}
	return c.Sprint(text)
}
