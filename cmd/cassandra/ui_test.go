package main

import (
	"os"
	"path/filepath"
	"testing"

	"cassandra/internal/domain/slide"
	"cassandra/internal/server/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitlesMarkdown(t *testing.T) {
	t.Parallel()

	md := titlesMarkdown("Rust", []string{"Introduction to Rust", "Conclusion"})
	assert.Equal(t, "# Rust\n\n1. Introduction to Rust\n2. Conclusion\n", md)
}

func TestPreviewMarkdown(t *testing.T) {
	t.Parallel()

	md := previewMarkdown(app.PreviewResult{
		Topic: "Rust",
		Slides: []app.PreviewSlide{
			{Title: "Overview", Content: "Rust is a systems language.", Type: "paragraph"},
			{Title: "Features", Content: "➣ Ownership\n➣ Borrowing\n", Type: "bullet"},
		},
		AIGenerated: false,
	})
	assert.Contains(t, md, "_Built-in content")
	assert.Contains(t, md, "## 1. Overview\n\n*paragraph*\n\nRust is a systems language.")
	assert.Contains(t, md, "- ➣ Ownership\n- ➣ Borrowing\n")
}

func TestRenderMarkdownPlainWithoutTerminal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# Title\n", renderMarkdown("# Title\n", false))
}

func TestTrimTitles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B"}, trimTitles([]string{" A ", "", "B"}))
	assert.Nil(t, trimTitles([]string{"  "}))
}

func TestHandoutPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/out/cassandra_Go_1.pdf", handoutPath("/out/cassandra_Go_1.pptx"))
}

func TestLoadSections(t *testing.T) {
	t.Parallel()

	sections, err := loadSections("")
	require.NoError(t, err)
	assert.Nil(t, sections)

	path := filepath.Join(t.TempDir(), "sections.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Appendix":"none","History":{"style":"paragraph"}}`), 0o644))
	sections, err = loadSections(path)
	require.NoError(t, err)
	assert.Equal(t, slide.StyleNone, sections["Appendix"].Style)
	assert.Equal(t, slide.StyleParagraph, sections["History"].Style)

	require.NoError(t, os.WriteFile(path, []byte(`[1]`), 0o644))
	_, err = loadSections(path)
	assert.Error(t, err)
}

func TestResolveTopicWithoutTerminal(t *testing.T) {
	t.Parallel()

	cli := &CLI{}
	topic, err := cli.resolveTopic([]string{"Machine", "Learning"})
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", topic)

	_, err = cli.resolveTopic(nil)
	assert.EqualError(t, err, "a topic is required")
}
