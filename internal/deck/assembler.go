// Package deck lays slide plans into an OOXML presentation with fixed
// positions, fonts and colours.
package deck

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cassandra/internal/domain/slide"
	"cassandra/internal/logging"
	"cassandra/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultBulletGlyph prefixes every bullet point unless the request picks another.
	DefaultBulletGlyph = "➣"

	minContentRunes = 20
	panelAlpha      = 80000

	titleSizePt   = 28
	bodySizePt    = 20
	closingSizePt = 66
	captionSizePt = 14
)

// Style is the per-request look of a deck. Assemble never modifies it.
type Style struct {
	BulletGlyph     string
	BackgroundURL   string
	ClosingImageURL string
	// Title goes into the document properties.
	Title string
	// CreatedAt stamps core.xml; zero leaves the package free of clock values.
	CreatedAt time.Time
}

// ImageFetcher downloads remote pictures.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ClosingImageFinder picks a picture for the closing slide when the request
// supplies neither a closing image nor a background.
type ClosingImageFinder interface {
	FindClosingImage(ctx context.Context) (string, error)
}

// Assembler builds decks from a template.
type Assembler struct {
	template *Template
	fetcher  ImageFetcher
	finder   ClosingImageFinder
	logger   logging.Logger
	metrics  *observability.MetricsCollector
	tracer   *observability.TracerProvider
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithTemplate replaces the built-in template.
func WithTemplate(t *Template) Option {
	return func(a *Assembler) {
		if t != nil {
			a.template = t
		}
	}
}

func WithImageFetcher(f ImageFetcher) Option {
	return func(a *Assembler) { a.fetcher = f }
}

func WithClosingImageFinder(f ClosingImageFinder) Option {
	return func(a *Assembler) { a.finder = f }
}

func WithLogger(logger logging.Logger) Option {
	return func(a *Assembler) { a.logger = logger }
}

func WithMetrics(m *observability.MetricsCollector) Option {
	return func(a *Assembler) { a.metrics = m }
}

func WithTracer(tp *observability.TracerProvider) Option {
	return func(a *Assembler) { a.tracer = tp }
}

// NewAssembler returns an assembler on the built-in template unless
// WithTemplate says otherwise.
func NewAssembler(opts ...Option) (*Assembler, error) {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.template == nil {
		t, err := defaultTemplate()
		if err != nil {
			return nil, err
		}
		a.template = t
	}
	if logging.IsNil(a.logger) {
		a.logger = logging.NewComponentLogger("deck")
	}
	return a, nil
}

type media struct {
	target string // relative to ppt/
	data   []byte
	ext    string
}

// build holds the parts of one deck while it is assembled.
type build struct {
	slides []*slideXMLBuilder
	media  []media
	byURL  map[string]int
}

func (b *build) addMedia(key string, data []byte, ext string) media {
	if idx, ok := b.byURL[key]; ok && key != "" {
		return b.media[idx]
	}
	m := media{target: fmt.Sprintf("media/cassandra_image%d.%s", len(b.media)+1, ext), data: data, ext: ext}
	b.media = append(b.media, m)
	if key != "" {
		b.byURL[key] = len(b.media) - 1
	}
	return m
}

// Assemble renders plans and a closing slide into .pptx bytes. Plans with
// style none or less than 20 characters of content are skipped. Failures to
// fetch or decode pictures are logged and the slide is drawn without them.
func (a *Assembler) Assemble(ctx context.Context, plans []slide.Plan, style Style) ([]byte, error) {
	ctx, span := a.tracer.StartSpan(ctx, observability.SpanAssemble,
		attribute.Int(observability.AttrSlideCount, len(plans)),
	)
	defer span.End()

	logger := logging.FromContext(ctx, a.logger)
	glyph := strings.TrimSpace(style.BulletGlyph)
	if glyph == "" {
		glyph = DefaultBulletGlyph
	}

	b := &build{byURL: make(map[string]int)}
	background := a.remoteImage(ctx, b, style.BackgroundURL, "background")

	for _, plan := range plans {
		planStyle := plan.Style
		if planStyle == "" {
			planStyle = slide.InferStyle(plan.Title)
		}
		switch {
		case planStyle == slide.StyleNone:
			logger.Debug("skipping content slide %q: style none", plan.Title)
		case len([]rune(strings.TrimSpace(plan.Content))) < minContentRunes:
			logger.Debug("skipping content slide %q: content too short", plan.Title)
		default:
			b.slides = append(b.slides, a.contentSlide(plan.Title, plan.Content, planStyle, glyph, background))
		}

		if plan.Image != nil {
			if s, err := a.imageSlide(b, plan.Title, *plan.Image); err != nil {
				logger.Warn("custom image for %q skipped: %v", plan.Title, err)
			} else {
				b.slides = append(b.slides, s)
			}
		}
	}

	b.slides = append(b.slides, a.closingSlide(ctx, b, style, background))

	data, err := a.write(b, style)
	if err != nil {
		observability.MarkError(span, err)
		return nil, err
	}
	a.metrics.RecordDeck(ctx, len(b.slides))
	logger.Info("assembled deck: %d slides, %d media, %d bytes", len(b.slides), len(b.media), len(data))
	return data, nil
}

// WriteFile assembles the deck and saves it at path.
func (a *Assembler) WriteFile(ctx context.Context, path string, plans []slide.Plan, style Style) error {
	data, err := a.Assemble(ctx, plans, style)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

func (a *Assembler) remoteImage(ctx context.Context, b *build, url, purpose string) *media {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	m, err := a.fetchImage(ctx, b, url)
	if err != nil {
		logging.FromContext(ctx, a.logger).Warn("%s image unavailable, continuing without it: %v", purpose, err)
		return nil
	}
	return m
}

func (a *Assembler) fetchImage(ctx context.Context, b *build, url string) (*media, error) {
	if a.fetcher == nil {
		return nil, fmt.Errorf("no image fetcher configured")
	}
	data, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	ext, err := imageExtension(data)
	if err != nil {
		return nil, err
	}
	m := b.addMedia(url, data, ext)
	return &m, nil
}

func (a *Assembler) slideRect() rect {
	w, h := a.template.Size()
	return rect{0, 0, w, h}
}

func (a *Assembler) contentSlide(title, content string, style slide.Style, glyph string, background *media) *slideXMLBuilder {
	s := newSlideXMLBuilder()
	alpha := 0
	if background != nil {
		s.picture("Background", background.target, a.slideRect())
		alpha = panelAlpha
	}

	titleRect := rect{inches(0.5), inches(0.3), inches(12.33), inches(0.7)}
	s.roundRect("Title Panel", titleRect, 0.1, alpha, nil)
	s.textBox("Title", titleRect, textFrame{
		anchorMid: true,
		autofit:   true,
		paragraphs: []paragraph{{
			text:   strings.ToUpper(title),
			sizePt: titleSizePt,
			bold:   true,
			align:  alignCenter,
		}},
	})

	panel := rect{inches(0.5), inches(1.2), inches(12.33), inches(5.8)}
	s.roundRect("Content Panel", panel, 0.02, alpha, nil)

	margin := inches(0.1)
	frame := textFrame{
		insets:    &[4]int64{margin, margin, margin, margin},
		anchorMid: true,
		autofit:   true,
	}
	if style == slide.StyleBullet {
		for _, point := range ExtractBulletPoints(content) {
			frame.paragraphs = append(frame.paragraphs, paragraph{
				text:        glyph + " " + point,
				sizePt:      bodySizePt,
				align:       alignLeft,
				lineSpacing: 130,
				spaceBefore: 6,
				spaceAfter:  6,
			})
		}
	} else {
		frame.paragraphs = []paragraph{{
			text:        CleanForSlide(content),
			sizePt:      bodySizePt,
			align:       alignJustify,
			lineSpacing: 130,
		}}
	}
	body := rect{panel.x + inches(0.2), panel.y + inches(0.15), panel.cx - inches(0.4), panel.cy - inches(0.3)}
	s.textBox("Content", body, frame)
	return s
}

func (a *Assembler) imageSlide(b *build, title string, img slide.Image) (*slideXMLBuilder, error) {
	ext, err := imageExtension(img.Data)
	if err != nil {
		return nil, err
	}
	m := b.addMedia("", img.Data, ext)

	s := newSlideXMLBuilder()
	s.textBox("Title", rect{inches(0.5), inches(0.3), inches(12.333), inches(0.8)}, textFrame{
		paragraphs: []paragraph{{text: title, sizePt: titleSizePt, bold: true, align: alignCenter}},
	})
	s.picture("Picture", m.target, rect{inches(2.67), inches(1.3), inches(8), inches(4.5)})

	caption := strings.TrimSpace(img.Caption)
	if caption == "" {
		caption = title + " - Diagram"
	}
	s.textBox("Caption", rect{inches(0.5), inches(6.0), inches(12.333), inches(0.5)}, textFrame{
		paragraphs: []paragraph{{text: caption, sizePt: captionSizePt, bold: true, align: alignCenter}},
	})
	return s, nil
}

// closingSlide prefers the requested closing picture, then a searched one
// when there is no background, then the background with a THANK YOU panel.
func (a *Assembler) closingSlide(ctx context.Context, b *build, style Style, background *media) *slideXMLBuilder {
	logger := logging.FromContext(ctx, a.logger)
	closing := a.remoteImage(ctx, b, style.ClosingImageURL, "closing")
	if closing == nil && background == nil && a.finder != nil {
		url, err := a.finder.FindClosingImage(ctx)
		if err != nil {
			logger.Warn("closing image search failed: %v", err)
		} else {
			closing = a.remoteImage(ctx, b, url, "closing")
		}
	}

	s := newSlideXMLBuilder()
	if closing != nil {
		s.picture("Closing", closing.target, a.slideRect())
		return s
	}

	if background != nil {
		s.picture("Background", background.target, a.slideRect())
	}
	w, h := a.template.Size()
	boxW, boxH := inches(10), inches(2.5)
	s.roundRect("Thank You", rect{(w - boxW) / 2, (h - boxH) / 2, boxW, boxH}, 0.05, panelAlpha, &textFrame{
		anchorMid: true,
		paragraphs: []paragraph{{
			text:   "THANK YOU",
			sizePt: closingSizePt,
			bold:   true,
			align:  alignCenter,
		}},
	})
	return s
}

func (a *Assembler) write(b *build, style Style) ([]byte, error) {
	t := a.template
	exts := make([]string, 0, len(b.media))
	for _, m := range b.media {
		exts = append(exts, m.ext)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	fail := func(err error) ([]byte, error) {
		_ = writer.Close()
		return nil, fmt.Errorf("write deck: %w", err)
	}

	generated := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML(t, len(b.slides), exts)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(style.Title, style.CreatedAt)},
		{"docProps/app.xml", appPropsXML(len(b.slides))},
		{"ppt/presentation.xml", presentationXML(t, len(b.slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(t, len(b.slides))},
	}
	for _, part := range generated {
		if err := writePart(writer, part.name, []byte(part.content), zip.Deflate); err != nil {
			return fail(err)
		}
	}

	for _, name := range sortedKeys(t.parts) {
		if err := writePart(writer, name, t.parts[name], zip.Deflate); err != nil {
			return fail(err)
		}
	}

	for i, s := range b.slides {
		n := i + 1
		if err := writePart(writer, fmt.Sprintf("ppt/slides/slide%d.xml", n), []byte(s.xml()), zip.Deflate); err != nil {
			return fail(err)
		}
		rels := slideRelsXML(t.layoutTarget, s.images)
		if err := writePart(writer, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), []byte(rels), zip.Deflate); err != nil {
			return fail(err)
		}
	}

	for _, m := range b.media {
		if err := writePart(writer, "ppt/"+m.target, m.data, zip.Store); err != nil {
			return fail(err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write deck: %w", err)
	}
	return buf.Bytes(), nil
}
