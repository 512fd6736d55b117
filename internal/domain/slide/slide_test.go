package slide

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StyleParagraph, ModeAuto.Resolve("INTRODUCTION TO GO"))
	assert.Equal(t, StyleParagraph, ModeAuto.Resolve("Executive Summary"))
	assert.Equal(t, StyleBullet, ModeAuto.Resolve("ADVANTAGES"))
	assert.Equal(t, StyleParagraph, ModeParagraph.Resolve("ADVANTAGES"))
	assert.Equal(t, StyleBullet, ModeBullet.Resolve("CONCLUSION"))

	assert.Equal(t, ModeAuto, ParseMode("cassandra"))
	assert.Equal(t, ModeParagraph, ParseMode("para"))
	assert.Equal(t, ModeBullet, ParseMode("point"))
	assert.Equal(t, ModeAuto, ParseMode("unknown"))
}

func TestSpecDecodesBothForms(t *testing.T) {
	t.Parallel()

	var specs map[string]Spec
	raw := `{
		"Introduction": "paragraph",
		"Architecture": {"style": "bullet", "customImage": true, "customImagesData": ["data:image/png;base64,AAAA"], "caption": "System"},
		"Appendix": "none"
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &specs))

	assert.Equal(t, Simple(StyleParagraph), specs["Introduction"])
	assert.Equal(t, StyleNone, specs["Appendix"].Style)

	arch := specs["Architecture"]
	assert.True(t, arch.Detailed)
	assert.True(t, arch.CustomImage)
	assert.Equal(t, StyleBullet, arch.Style)
	assert.Equal(t, []string{"data:image/png;base64,AAAA"}, arch.ImageData)
	assert.Equal(t, "System", arch.Caption)
}

func TestSpecRejectsUnknownStyle(t *testing.T) {
	t.Parallel()

	var s Spec
	require.Error(t, json.Unmarshal([]byte(`"diagram"`), &s))
	require.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestMatch(t *testing.T) {
	t.Parallel()

	specs := map[string]Spec{
		"1.2 Key Concepts": Simple(StyleParagraph),
		"future":           Simple(StyleNone),
	}

	got, ok := Match(specs, "KEY CONCEPTS")
	require.True(t, ok)
	assert.Equal(t, StyleParagraph, got.Style)

	got, ok = Match(specs, "FUTURE SCOPE")
	require.True(t, ok)
	assert.Equal(t, StyleNone, got.Style)

	_, ok = Match(specs, "DISADVANTAGES")
	assert.False(t, ok)
}

func TestInferStyle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StyleParagraph, InferStyle("HISTORY AND BACKGROUND"))
	assert.Equal(t, StyleParagraph, InferStyle("Overview of Rust"))
	assert.Equal(t, StyleBullet, InferStyle("HOW IT WORKS"))
}
