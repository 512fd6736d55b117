package deck

import (
	"regexp"
	"strings"
)

const (
	maxSlideParagraphRunes = 1000
	minSlideCutRunes       = 200
	maxSlideBulletRunes    = 120
	minSlideBulletCut      = 50
	maxSlideBullets        = 8
)

var listNumbering = regexp.MustCompile(`^\d+[.)](?:\s+|$)`)

// bulletGlyphs covers the markers the preview UI offers plus common ones.
const bulletGlyphs = "•➢➣▪▫-*►○●⁃◆◇■□▸▹▶▷→➤✓✔★☆◉⇒❥☸✦✧⊳⊲⫸⫷⪢⪡·⊛◌◍◎◘◦☉⁌⁍◈☐☑☒❧☙✤✱✲❖↠↣↦↬⇛⇝⇢⇨➙➛➜➝➞➟➠➡➥➦➧➨➮➱➲➳➵➸➼➽➾⇾‣▻ "

// CleanForSlide collapses whitespace and keeps at most 1000 characters,
// cutting at a sentence end where one exists past the first 200.
func CleanForSlide(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= maxSlideParagraphRunes {
		if content != "" && !endsSentence(content) {
			content += "."
		}
		return content
	}

	cut := runes[:maxSlideParagraphRunes]
	for i := len(cut) - 1; i > minSlideCutRunes; i-- {
		if strings.ContainsRune(".!?", cut[i]) {
			return strings.TrimSpace(string(cut[:i+1]))
		}
	}
	for i := len(cut) - 1; i > minSlideCutRunes; i-- {
		if cut[i] == ' ' {
			result := strings.TrimSpace(string(cut[:i]))
			if !endsSentence(result) {
				result += "."
			}
			return result
		}
	}
	return strings.TrimSpace(string(cut)) + "."
}

// ExtractBulletPoints splits content into at most eight points. Lines lose
// their markers and numbering; when fewer than two lines survive, the text
// is split into sentences instead. Points are cut to 120 characters and end
// in terminal punctuation.
func ExtractBulletPoints(content string) []string {
	var points []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, bulletGlyphs)
		line = listNumbering.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if len([]rune(line)) > 10 {
			points = append(points, line)
		}
	}

	if len(points) < 2 {
		flat := strings.ReplaceAll(content, "\n", " ")
		var sentences []string
		var current strings.Builder
		for _, r := range flat {
			current.WriteRune(r)
			if strings.ContainsRune(".!?", r) {
				if sentence := strings.TrimSpace(current.String()); len([]rune(sentence)) > 20 {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
		if len(sentences) > 0 {
			points = sentences
		} else {
			points = []string{flat}
		}
	}

	cleaned := make([]string, 0, len(points))
	for _, point := range points {
		point = strings.TrimSpace(point)
		if point == "" {
			continue
		}
		if runes := []rune(point); len(runes) > maxSlideBulletRunes {
			cut := maxSlideBulletRunes
			for i := maxSlideBulletRunes; i > minSlideBulletCut; i-- {
				if strings.ContainsRune(".!?", runes[i]) {
					cut = i + 1
					break
				}
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			point = strings.TrimSpace(string(runes[:cut]))
		}
		if !endsSentence(point) {
			point += "."
		}
		cleaned = append(cleaned, point)
		if len(cleaned) == maxSlideBullets {
			break
		}
	}
	return cleaned
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}
