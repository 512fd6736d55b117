package deck

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cassandra/internal/domain/slide"
	"cassandra/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	images map[string][]byte
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	data, ok := f.images[url]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return data, nil
}

type fakeFinder struct {
	url   string
	err   error
	calls int
}

func (f *fakeFinder) FindClosingImage(context.Context) (string, error) {
	f.calls++
	return f.url, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func readDeck(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	parts := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		payload, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[file.Name] = string(payload)

		if strings.HasSuffix(file.Name, ".xml") || strings.HasSuffix(file.Name, ".rels") {
			decoder := xml.NewDecoder(strings.NewReader(parts[file.Name]))
			for {
				_, err := decoder.Token()
				if err == io.EOF {
					break
				}
				require.NoError(t, err, "malformed %s", file.Name)
			}
		}
	}
	return parts
}

func slideCount(parts map[string]string) int {
	n := 0
	for name := range parts {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			n++
		}
	}
	return n
}

func newTestAssembler(t *testing.T, opts ...Option) *Assembler {
	t.Helper()
	a, err := NewAssembler(append([]Option{WithLogger(logging.Nop())}, opts...)...)
	require.NoError(t, err)
	return a
}

var samplePlans = []slide.Plan{
	{Title: "Introduction to Rust", Content: "Rust is a systems programming language focused on safety and speed.", Style: slide.StyleParagraph},
	{Title: "Tiny", Content: "too short", Style: slide.StyleBullet},
	{Title: "Advantages", Content: "➣ Memory safety without garbage collection.\n➣ Fearless concurrency through ownership.", Style: slide.StyleBullet},
}

func TestAssembleSkipsShortContentAndAppendsClosing(t *testing.T) {
	t.Parallel()

	data, err := newTestAssembler(t).Assemble(context.Background(), samplePlans, Style{})
	require.NoError(t, err)

	parts := readDeck(t, data)
	assert.Equal(t, 3, slideCount(parts))
	assert.Contains(t, parts["ppt/slides/slide1.xml"], "INTRODUCTION TO RUST")
	assert.Contains(t, parts["ppt/slides/slide1.xml"], `algn="just"`)
	assert.Contains(t, parts["ppt/slides/slide2.xml"], "➣ Memory safety without garbage collection.")
	assert.Contains(t, parts["ppt/slides/slide3.xml"], "THANK YOU")
	assert.Contains(t, parts["ppt/slides/_rels/slide1.xml.rels"], "../slideLayouts/slideLayout1.xml")
	assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldId id="258" r:id="rId8"/>`)
	assert.Contains(t, parts["[Content_Types].xml"], "/ppt/slides/slide3.xml")
	assert.NotContains(t, parts["[Content_Types].xml"], "/ppt/slides/slide4.xml")
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	a := newTestAssembler(t)
	first, err := a.Assemble(context.Background(), samplePlans, Style{BulletGlyph: "→"})
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), samplePlans, Style{BulletGlyph: "→"})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))

	parts := readDeck(t, first)
	assert.NotContains(t, parts["docProps/core.xml"], "dcterms:created")
	assert.Contains(t, parts["ppt/slides/slide2.xml"], "→ Fearless concurrency through ownership.")

	reader, err := zip.NewReader(bytes.NewReader(first), int64(len(first)))
	require.NoError(t, err)
	assert.Equal(t, "[Content_Types].xml", reader.File[0].Name)
	for _, file := range reader.File {
		assert.Zero(t, file.ModifiedDate, file.Name)
		assert.Zero(t, file.ModifiedTime, file.Name)
	}
}

func TestAssembleCreatedAtStampsCoreProps(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	data, err := newTestAssembler(t).Assemble(context.Background(), nil, Style{Title: "Rust & Go", CreatedAt: created})
	require.NoError(t, err)

	core := readDeck(t, data)["docProps/core.xml"]
	assert.Contains(t, core, "2025-03-04T05:06:07Z")
	assert.Contains(t, core, "Rust &amp; Go")
}

func TestAssembleStyleNoneAndInferredStyle(t *testing.T) {
	t.Parallel()

	plans := []slide.Plan{
		{Title: "Hidden", Content: "This content is long enough but hidden.", Style: slide.StyleNone},
		{Title: "Overview", Content: "First sentence of the overview is here. Second sentence follows it."},
	}
	data, err := newTestAssembler(t).Assemble(context.Background(), plans, Style{})
	require.NoError(t, err)

	parts := readDeck(t, data)
	require.Equal(t, 2, slideCount(parts))
	assert.Contains(t, parts["ppt/slides/slide1.xml"], "OVERVIEW")
	assert.Contains(t, parts["ppt/slides/slide1.xml"], `algn="just"`)
}

func TestAssembleBackgroundMakesPanelsTranslucent(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{images: map[string][]byte{"https://img/bg.png": pngBytes(t)}}
	finder := &fakeFinder{url: "https://img/thanks.png"}
	a := newTestAssembler(t, WithImageFetcher(fetcher), WithClosingImageFinder(finder))

	data, err := a.Assemble(context.Background(), samplePlans, Style{BackgroundURL: "https://img/bg.png"})
	require.NoError(t, err)

	parts := readDeck(t, data)
	require.Equal(t, 3, slideCount(parts))
	first := parts["ppt/slides/slide1.xml"]
	assert.Contains(t, first, `<a:alpha val="80000"/>`)
	assert.Less(t, strings.Index(first, "<p:pic>"), strings.Index(first, "<p:sp>"))
	assert.Contains(t, parts["ppt/slides/slide3.xml"], "THANK YOU")
	assert.Contains(t, parts["ppt/slides/slide3.xml"], "<p:pic>")
	assert.Contains(t, parts, "ppt/media/cassandra_image1.png")
	assert.NotContains(t, parts, "ppt/media/cassandra_image2.png")
	assert.Contains(t, parts["[Content_Types].xml"], `<Default Extension="png" ContentType="image/png"/>`)
	assert.Zero(t, finder.calls, "background present, no search")
}

func TestAssembleClosingImageFallbacks(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{images: map[string][]byte{"https://img/thanks.png": pngBytes(t)}}
	finder := &fakeFinder{url: "https://img/thanks.png"}
	a := newTestAssembler(t, WithImageFetcher(fetcher), WithClosingImageFinder(finder))

	data, err := a.Assemble(context.Background(), nil, Style{})
	require.NoError(t, err)
	parts := readDeck(t, data)
	require.Equal(t, 1, slideCount(parts))
	assert.Contains(t, parts["ppt/slides/slide1.xml"], "<p:pic>")
	assert.NotContains(t, parts["ppt/slides/slide1.xml"], "THANK YOU")
	assert.Equal(t, 1, finder.calls)

	failing := newTestAssembler(t, WithImageFetcher(fetcher), WithClosingImageFinder(&fakeFinder{err: errors.New("quota")}))
	data, err = failing.Assemble(context.Background(), nil, Style{ClosingImageURL: "https://img/missing.png"})
	require.NoError(t, err)
	assert.Contains(t, readDeck(t, data)["ppt/slides/slide1.xml"], "THANK YOU")
}

func TestAssembleCustomImageSlide(t *testing.T) {
	t.Parallel()

	plans := []slide.Plan{
		{
			Title:   "Architecture",
			Content: "➣ Brokers store partitions durably.\n➣ Consumers read at their own pace.",
			Style:   slide.StyleBullet,
			Image:   &slide.Image{Data: pngBytes(t)},
		},
		{
			Title:   "Broken",
			Content: "➣ Image payload below is not a picture.\n➣ The slide is still drawn.",
			Style:   slide.StyleBullet,
			Image:   &slide.Image{Data: []byte("not an image")},
		},
	}
	data, err := newTestAssembler(t).Assemble(context.Background(), plans, Style{})
	require.NoError(t, err)

	parts := readDeck(t, data)
	require.Equal(t, 4, slideCount(parts))
	assert.Contains(t, parts["ppt/slides/slide2.xml"], "Architecture - Diagram")
	assert.Contains(t, parts["ppt/slides/_rels/slide2.xml.rels"], "../media/cassandra_image1.png")
	assert.Contains(t, parts["ppt/slides/slide3.xml"], "BROKEN")
	assert.Contains(t, parts["ppt/slides/slide4.xml"], "THANK YOU")
}

func TestGeneratedDeckWorksAsTemplate(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{images: map[string][]byte{"bg": pngBytes(t)}}
	data, err := newTestAssembler(t, WithImageFetcher(fetcher)).Assemble(context.Background(), samplePlans, Style{BackgroundURL: "bg"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "previous.pptx")
	a := newTestAssembler(t)
	require.NoError(t, a.WriteFile(context.Background(), path, samplePlans, Style{}))

	tmpl, err := ParseTemplate(data)
	require.NoError(t, err)
	assert.Equal(t, "slideLayouts/slideLayout1.xml", tmpl.layoutTarget)
	w, h := tmpl.Size()
	assert.Equal(t, int64(defaultSlideCX), w)
	assert.Equal(t, int64(defaultSlideCY), h)

	loaded, err := LoadTemplate(path)
	require.NoError(t, err)
	again, err := newTestAssembler(t, WithTemplate(loaded)).Assemble(context.Background(), nil, Style{})
	require.NoError(t, err)
	assert.Equal(t, 1, slideCount(readDeck(t, again)))
}

func TestParseTemplateRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseTemplate([]byte("not a zip"))
	assert.Error(t, err)
}

func TestBaseTemplateDropsPlaceholderSlide(t *testing.T) {
	t.Parallel()

	parts := readDeck(t, BaseTemplate())
	assert.Contains(t, parts, "ppt/slides/slide1.xml")

	tmpl, err := ParseTemplate(BaseTemplate())
	require.NoError(t, err)
	for name := range tmpl.parts {
		assert.False(t, strings.HasPrefix(name, "ppt/slides/"), name)
	}
}

func TestDecodeImageData(t *testing.T) {
	t.Parallel()

	raw := pngBytes(t)
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeImageData(fmt.Sprintf("data:image/png;base64,%s", encoded))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeImageData(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = DecodeImageData("data:image/png;base64")
	assert.Error(t, err)
	_, err = DecodeImageData("%%%")
	assert.Error(t, err)
}
