// Package slide holds the data model shared by the planner, the content
// synthesizer and the deck assembler.
package slide

import (
	"strings"
)

// Style is how a slide body is laid out.
type Style string

const (
	StyleParagraph Style = "paragraph"
	StyleBullet    Style = "bullet"
	// StyleNone suppresses the content slide entirely.
	StyleNone Style = "none"
)

// ParseStyle accepts paragraph/para, bullet/point and none.
func ParseStyle(raw string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paragraph", "para":
		return StyleParagraph, true
	case "bullet", "bullets", "point", "points":
		return StyleBullet, true
	case "none":
		return StyleNone, true
	default:
		return "", false
	}
}

// Image is a user-supplied picture shown on its own slide after the content.
type Image struct {
	Data    []byte
	Caption string
}

// Plan is one slide on its way through the pipeline. The planner fills
// Title, the synthesizer fills Content and Style, the assembler reads all.
type Plan struct {
	Title   string
	Content string
	Style   Style
	Image   *Image
}

// Mode chooses the synthesizer path.
type Mode int

const (
	ModeAuto Mode = iota
	ModeParagraph
	ModeBullet
)

// ParseMode maps the request vocabulary onto a Mode. Unknown values are auto.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "para", "paragraph":
		return ModeParagraph
	case "point", "points", "bullet":
		return ModeBullet
	default:
		return ModeAuto
	}
}

func (m Mode) String() string {
	switch m {
	case ModeParagraph:
		return "para"
	case ModeBullet:
		return "point"
	default:
		return "cassandra"
	}
}

var paragraphTitleWords = []string{"introduction", "conclusion", "abstract", "summary"}

// Resolve picks the style for title. Auto mode uses paragraphs for
// introduction, conclusion, abstract and summary slides.
func (m Mode) Resolve(title string) Style {
	switch m {
	case ModeParagraph:
		return StyleParagraph
	case ModeBullet:
		return StyleBullet
	}
	lower := strings.ToLower(title)
	for _, word := range paragraphTitleWords {
		if strings.Contains(lower, word) {
			return StyleParagraph
		}
	}
	return StyleBullet
}
