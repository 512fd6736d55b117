package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cassandra/internal/domain/slide"
)

// Slide count bounds applied at the request boundary.
const (
	MinSlides     = 10
	MaxSlides     = 30
	DefaultSlides = 15
)

// ClampSlides bounds a requested slide count to [MinSlides, MaxSlides].
func ClampSlides(n int) int {
	return max(MinSlides, min(MaxSlides, n))
}

// SlideCount resolves an optional request count: absent means DefaultSlides.
func SlideCount(n *int) int {
	if n == nil {
		return DefaultSlides
	}
	return ClampSlides(*n)
}

// PreviewRequest asks for titles plus synthesized content.
type PreviewRequest struct {
	Topic      string
	NumSlides  int
	Mode       slide.Mode
	UserTitles []string
}

// PreviewSlide is one slide as the editor shows it.
type PreviewSlide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// PreviewResult is the preview payload. AIGenerated is false when the canned
// slides were returned instead.
type PreviewResult struct {
	Topic       string         `json:"topic"`
	Slides      []PreviewSlide `json:"slides"`
	AIGenerated bool           `json:"ai_generated"`
}

// RefineRequest asks for fresh content for one slide.
type RefineRequest struct {
	Topic   string
	Title   string
	Current string
	Style   string
	Glyph   string
}

// RefineResult carries the new content and echoes the style.
type RefineResult struct {
	Content string `json:"content"`
	Style   string `json:"style"`
}

// SlideInput is one entry of a generate request: either a bare title or an
// edited slide with content.
type SlideInput struct {
	Title      string
	Content    string
	Type       string
	HasContent bool
}

type slideInputObject struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
	Type    string  `json:"type"`
	Style   string  `json:"style"`
}

func (s *SlideInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return err
		}
		*s = SlideInput{Title: title}
		return nil
	}
	var obj slideInputObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("slide must be a title or an object: %w", err)
	}
	kind := obj.Type
	if kind == "" {
		kind = obj.Style
	}
	*s = SlideInput{Title: obj.Title, Type: kind}
	if obj.Content != nil {
		s.Content = *obj.Content
		s.HasContent = true
	}
	return nil
}

// style maps the editor's type onto a slide style. Unknown types are bullets.
func (s SlideInput) style() slide.Style {
	if style, ok := slide.ParseStyle(s.Type); ok {
		return style
	}
	return slide.StyleBullet
}

// GenerateRequest describes one deck build.
type GenerateRequest struct {
	Topic           string
	Slides          []SlideInput
	BackgroundURL   string
	ClosingImageURL string
	BulletGlyph     string
	Sections        map[string]slide.Spec
}

// GeneratedDeck is a deck written to the output directory.
type GeneratedDeck struct {
	Path  string
	Name  string
	Plans []slide.Plan
}

func styleName(style slide.Style) string {
	if style == slide.StyleParagraph {
		return string(slide.StyleParagraph)
	}
	return string(slide.StyleBullet)
}

func requireTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ValidationError("Topic is required")
	}
	return topic, nil
}
