package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBulletShape(t *testing.T, text string) {
	t.Helper()
	lines := strings.Split(text, "\n")
	require.Len(t, lines, BulletCount)
	for _, line := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 90, line)
		assert.GreaterOrEqual(t, utf8.RuneCountInString(line), 15, line)
		assert.True(t, endsTerminal(line), line)
	}
}

func assertParagraphShape(t *testing.T, text string) {
	t.Helper()
	n := utf8.RuneCountInString(text)
	assert.GreaterOrEqual(t, n, 500)
	assert.LessOrEqual(t, n, 800)
	assert.True(t, endsTerminal(text))
	assert.NotContains(t, text, "\n")
}

func TestCleanParagraphStripsMarkdownAndPads(t *testing.T) {
	t.Parallel()

	out := CleanParagraph("## Overview\n**Go** is a *compiled* language\n- built at Google")
	assert.True(t, strings.HasPrefix(out, "Overview Go is a *compiled* language built at Google."))
	assert.NotContains(t, out, "**")
	assertParagraphShape(t, out)
}

func TestCleanParagraphCutsLongText(t *testing.T) {
	t.Parallel()

	sentence := "Distributed ledgers replicate state across many independent nodes. "
	out := CleanParagraph(strings.Repeat(sentence, 30))
	assertParagraphShape(t, out)
	assert.True(t, strings.HasSuffix(out, "nodes."))
}

func TestCleanParagraphWithoutSentenceBreaks(t *testing.T) {
	t.Parallel()

	out := CleanParagraph(strings.Repeat("word ", 300))
	assertParagraphShape(t, out)

	out = CleanParagraph(strings.Repeat("x", 1200))
	assertParagraphShape(t, out)
}

func TestCleanParagraphEmptyInput(t *testing.T) {
	t.Parallel()

	assertParagraphShape(t, CleanParagraph(""))
}

func TestFormatBulletsNormalisesModelOutput(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"Here are the points:",
		"1. provides efficient data processing for large scale applications",
		"- Enables seamless integration with existing enterprise systems.",
		"* too short",
		"➣ Supports multiple programming languages and development frameworks, including a very long tail of extra words that goes well past the limit",
		"",
		"• Offers robust security features for data protection!",
	}, "\n")

	out := FormatBullets(raw)
	assertBulletShape(t, out)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Here are the points.", lines[0])
	assert.Equal(t, "Provides efficient data processing for large scale applications.", lines[1])
	assert.Equal(t, "Enables seamless integration with existing enterprise systems.", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Supports multiple programming languages"))
	assert.Equal(t, "Offers robust security features for data protection!", lines[4])
	assert.Equal(t, "Provides essential capabilities for effective here.", lines[7])
}

func TestFormatBulletsCapsAtEight(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, "Delivers consistent results in production environments.")
	}
	assertBulletShape(t, FormatBullets(strings.Join(lines, "\n")))
}

func TestFormatBulletsEmptyInput(t *testing.T) {
	t.Parallel()

	out := FormatBullets("")
	assertBulletShape(t, out)
	assert.Contains(t, out, "Provides essential capabilities for effective implementation.")
}

func TestPostProcessorIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"**Bold** start\n# heading line\n" + strings.Repeat("Some text follows here. ", 50),
		"short",
		strings.Repeat("abc ", 400),
	}
	for _, in := range inputs {
		once := CleanParagraph(in)
		assert.Equal(t, once, CleanParagraph(once))
	}

	bullets := []string{
		"1) first point that is long enough to keep\n2) second point that is also long enough",
		strings.Repeat("A very long bullet sentence that keeps going and going without stopping anywhere ", 3),
		DefaultBullets("Kubernetes"),
		"3D printing enables rapid prototyping of parts.\n5G networks deliver low latency links.",
		"2024 saw broad adoption of edge inference.\n1.5 million devices shipped in the first quarter.",
	}
	for _, in := range bullets {
		once := FormatBullets(in)
		assert.Equal(t, once, FormatBullets(once))
	}
}

func TestFormatBulletsKeepsLeadingDigits(t *testing.T) {
	t.Parallel()

	lines := strings.Split(FormatBullets("3D printing enables rapid prototyping of parts.\n5G networks deliver low latency links."), "\n")
	require.Len(t, lines, BulletCount)
	assert.Equal(t, "3D printing enables rapid prototyping of parts.", lines[0])
	assert.Equal(t, "5G networks deliver low latency links.", lines[1])
	assert.Equal(t, "Provides essential capabilities for effective 3d.", lines[2])

	assert.Equal(t, "2024 saw broad adoption.", StripBulletMarker("- 2024 saw broad adoption."))
	assert.Equal(t, "Ten steps.", StripBulletMarker("10) Ten steps."))
	assert.Equal(t, "➣ 3D printing grows.", ApplyGlyph("1. 3D printing grows.", "➣"))
}

func TestApplyGlyphReplacesMarkers(t *testing.T) {
	t.Parallel()

	in := "• First point.\n\n  ➢ Second point.\n3. Third point."
	assert.Equal(t, "→ First point.\n→ Second point.\n→ Third point.", ApplyGlyph(in, "→"))
	assert.Equal(t, "➣ First point.", ApplyGlyph("- First point.", ""))
}

func TestPrefixGlyphKeepsExistingPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "➣ One.\n➣ Two.", PrefixGlyph("➣ One.\nTwo.", "➣"))
}
