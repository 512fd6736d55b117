package slide

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Spec is a per-section style override. It decodes from either a bare style
// string or an object with image options; Detailed records which form it was.
type Spec struct {
	Style       Style
	Detailed    bool
	AIImage     bool
	CustomImage bool
	ImageData   []string
	Caption     string
}

// Simple returns the bare-string form.
func Simple(style Style) Spec {
	return Spec{Style: style}
}

type detailedSpec struct {
	Style            string   `json:"style"`
	Image            bool     `json:"image"`
	AIImage          bool     `json:"aiImage"`
	CustomImage      bool     `json:"customImage"`
	CustomImagesData []string `json:"customImagesData"`
	ImageData        []string `json:"imageData"`
	Caption          string   `json:"caption"`
}

// UnmarshalJSON decodes "bullet" or {"style":"bullet","customImage":true,...}.
func (s *Spec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		style, ok := ParseStyle(raw)
		if !ok {
			return fmt.Errorf("unknown style %q", raw)
		}
		*s = Simple(style)
		return nil
	}

	var d detailedSpec
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("style spec must be a string or object: %w", err)
	}
	style := StyleParagraph
	if strings.TrimSpace(d.Style) != "" {
		parsed, ok := ParseStyle(d.Style)
		if !ok {
			return fmt.Errorf("unknown style %q", d.Style)
		}
		style = parsed
	}
	images := d.CustomImagesData
	if len(images) == 0 {
		images = d.ImageData
	}
	*s = Spec{
		Style:       style,
		Detailed:    true,
		AIImage:     d.Image || d.AIImage,
		CustomImage: d.CustomImage,
		ImageData:   images,
		Caption:     d.Caption,
	}
	return nil
}

// MarshalJSON writes the same form that was decoded.
func (s Spec) MarshalJSON() ([]byte, error) {
	if !s.Detailed {
		return json.Marshal(string(s.Style))
	}
	return json.Marshal(detailedSpec{
		Style:            string(s.Style),
		AIImage:          s.AIImage,
		CustomImage:      s.CustomImage,
		CustomImagesData: s.ImageData,
		Caption:          s.Caption,
	})
}

var defaultParagraphKeywords = []string{
	"abstract", "introduction", "conclusion", "summary",
	"overview", "background", "description",
}

// Match finds the spec whose key matches title: either contains the other
// after lower-casing, or they are equal once numeric tokens ("1.2") are removed.
func Match(specs map[string]Spec, title string) (Spec, bool) {
	if len(specs) == 0 {
		return Spec{}, false
	}
	titleLower := strings.ToLower(title)
	titleClean := stripNumericTokens(titleLower)

	// deterministic order so overlapping keys resolve the same way every time
	keys := make([]string, 0, len(specs))
	for key := range specs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		keyLower := strings.ToLower(key)
		keyClean := stripNumericTokens(keyLower)
		switch {
		case strings.Contains(titleLower, keyLower), strings.Contains(keyLower, titleLower):
			return specs[key], true
		case keyClean == titleClean:
			return specs[key], true
		case keyClean != "" && titleClean != "" &&
			(strings.Contains(titleClean, keyClean) || strings.Contains(keyClean, titleClean)):
			return specs[key], true
		}
	}
	return Spec{}, false
}

// InferStyle is the style used when no spec matches a slide without one.
func InferStyle(title string) Style {
	lower := strings.ToLower(title)
	for _, keyword := range defaultParagraphKeywords {
		if strings.Contains(lower, keyword) {
			return StyleParagraph
		}
	}
	return StyleBullet
}

func stripNumericTokens(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if isNumericToken(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func isNumericToken(s string) bool {
	digits := strings.ReplaceAll(s, ".", "")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
