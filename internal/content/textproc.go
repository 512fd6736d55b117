// Package content turns model output into slide text: it plans titles,
// synthesizes paragraphs and bullet lists, refines existing slides and
// falls back to canned text whenever the model is unavailable.
package content

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// BulletCount is the number of lines every bullet slide carries.
	BulletCount = 8

	maxBulletRunes    = 90
	minBulletRunes    = 15
	bulletSoftCutMin  = 50
	minParagraphRunes = 500
	maxParagraphRunes = 800
)

var (
	boldPattern         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	markdownLinePrefix  = regexp.MustCompile(`^(?:(?:#+|[-*•])\s+)+`)
	// Numbers only count as markers when they look like list numbering, so
	// "3D printing" and "2024 saw" keep their leading digits.
	bulletMarkerPattern = regexp.MustCompile(`^\s*(?:(?:[-*•➢➣➤►▶→>]+|\d+[.)](?:\s|$))\s*)+`)
)

var paragraphFiller = []string{
	"This aspect plays a crucial role in the overall implementation and effectiveness of the solution.",
	"Understanding these concepts is essential for successful application.",
	"The ongoing developments in this field continue to expand possibilities.",
	"Professionals benefit greatly from staying updated with these advancements.",
}

// CleanParagraph strips markdown, joins the text into one paragraph and
// brings it into 500-800 characters ending in terminal punctuation. Short
// text is padded with generic filler sentences; long text is cut at the last
// sentence end. Applying it to its own output changes nothing.
func CleanParagraph(raw string) string {
	text := raw
	for i := 0; i < 4 && boldPattern.MatchString(text); i++ {
		text = boldPattern.ReplaceAllString(text, "$1")
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = markdownLinePrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			kept = append(kept, line)
		}
	}
	text = strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
	if text != "" {
		text = ensureTerminal(text)
	}

	for i := 0; runeLen(text) < minParagraphRunes; i++ {
		sentence := paragraphFiller[i%len(paragraphFiller)]
		if text == "" {
			text = sentence
		} else {
			text += " " + sentence
		}
	}

	if runeLen(text) > maxParagraphRunes {
		text = cutParagraph(text)
	}
	return text
}

func cutParagraph(text string) string {
	runes := []rune(text)
	window := runes[:maxParagraphRunes]
	if cut := lastIndexAny(window, ".!?"); cut >= minParagraphRunes {
		return string(runes[:cut+1])
	}
	if cut := lastIndexAny(window[:maxParagraphRunes-1], " "); cut >= minParagraphRunes {
		return trimTrailingJunk(string(runes[:cut])) + "."
	}
	return string(runes[:maxParagraphRunes-1]) + "."
}

// FormatBullets normalises model output into exactly eight lines. Leading
// markers and numbering are removed, lines under 15 characters dropped, long
// lines cut to at most 90 characters, and every line ends in .!? with a
// capital first letter. Missing lines are padded from the first bullet.
func FormatBullets(raw string) string {
	bullets := make([]string, 0, BulletCount)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(bulletMarkerPattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		line = fitBullet(line)
		if runeLen(line) < minBulletRunes {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == BulletCount {
			break
		}
	}

	filler := "Provides essential capabilities for effective " + paddingSubject(bullets) + "."
	for len(bullets) < BulletCount {
		bullets = append(bullets, filler)
	}
	return strings.Join(bullets, "\n")
}

func fitBullet(line string) string {
	runes := []rune(line)
	if len(runes) > maxBulletRunes || (len(runes) == maxBulletRunes && !endsTerminal(line)) {
		window := runes[:maxBulletRunes]
		if cut := lastIndexAny(window, " "); cut > bulletSoftCutMin {
			runes = runes[:cut]
		} else {
			runes = runes[:maxBulletRunes-1]
		}
	}
	line = trimTrailingJunk(string(runes))
	if line == "" {
		return ""
	}
	return capitalize(ensureTerminal(line))
}

func paddingSubject(bullets []string) string {
	if len(bullets) == 0 {
		return "implementation"
	}
	fields := strings.Fields(bullets[0])
	if len(fields) == 0 {
		return "implementation"
	}
	word := strings.ToLower(strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	if word == "" {
		return "implementation"
	}
	if runes := []rune(word); len(runes) > 30 {
		word = string(runes[:30])
	}
	return word
}

// StripBulletMarker removes leading glyphs, dashes and numbering from a line.
func StripBulletMarker(line string) string {
	return strings.TrimSpace(bulletMarkerPattern.ReplaceAllString(line, ""))
}

// ApplyGlyph re-marks every non-empty line as "{glyph} {line}" after removing
// whatever marker the line already carried.
func ApplyGlyph(text, glyph string) string {
	if glyph == "" {
		glyph = "➣"
	}
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = StripBulletMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		out = append(out, glyph+" "+line)
	}
	return strings.Join(out, "\n")
}

// PrefixGlyph adds "{glyph} " to lines that do not already start with it.
func PrefixGlyph(text, glyph string) string {
	if glyph == "" {
		glyph = "➣"
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, glyph) {
			line = glyph + " " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func ensureTerminal(s string) string {
	if endsTerminal(s) {
		return s
	}
	return s + "."
}

func endsTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func trimTrailingJunk(s string) string {
	return strings.TrimRight(s, " \t,;:-–—")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func lastIndexAny(runes []rune, chars string) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if strings.ContainsRune(chars, runes[i]) {
			return i
		}
	}
	return -1
}
