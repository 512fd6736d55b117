package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cassandra/internal/content"
	"cassandra/internal/deck"
	"cassandra/internal/domain/slide"
	"cassandra/internal/logging"
	"cassandra/internal/workspace"
)

// DeckAssembler renders slide plans into a deck file.
type DeckAssembler interface {
	WriteFile(ctx context.Context, path string, plans []slide.Plan, style deck.Style) error
}

// DeckService runs the plan, preview, refine and generate use cases.
type DeckService struct {
	planner   *content.Planner
	synth     *content.Synthesizer
	refiner   *content.Refiner
	assembler DeckAssembler
	workspace *workspace.Workspace
	glyph     string
	logger    logging.Logger
	now       func() time.Time
}

// DeckServiceOption configures a DeckService.
type DeckServiceOption func(*DeckService)

func WithServiceLogger(logger logging.Logger) DeckServiceOption {
	return func(s *DeckService) { s.logger = logging.OrNop(logger) }
}

// WithDefaultGlyph sets the bullet glyph used when a request names none.
func WithDefaultGlyph(glyph string) DeckServiceOption {
	return func(s *DeckService) {
		if strings.TrimSpace(glyph) != "" {
			s.glyph = glyph
		}
	}
}

func WithClock(now func() time.Time) DeckServiceOption {
	return func(s *DeckService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewDeckService(
	planner *content.Planner,
	synth *content.Synthesizer,
	refiner *content.Refiner,
	assembler DeckAssembler,
	ws *workspace.Workspace,
	opts ...DeckServiceOption,
) *DeckService {
	s := &DeckService{
		planner:   planner,
		synth:     synth,
		refiner:   refiner,
		assembler: assembler,
		workspace: ws,
		glyph:     "➣",
		logger:    logging.NewComponentLogger("deck-service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanTopics returns n slide titles for topic. n is used as given.
func (s *DeckService) PlanTopics(ctx context.Context, topic string, n int) ([]string, error) {
	topic, err := requireTopic(topic)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(ctx, topic, n), nil
}

// Preview plans (or refines the user's titles) and synthesizes every slide.
// onSlide, when set, sees each slide as soon as it is ready. A panic inside
// the pipeline yields the canned preview with AIGenerated false.
func (s *DeckService) Preview(ctx context.Context, req PreviewRequest, onSlide func(index, total int, ps PreviewSlide)) (result PreviewResult, err error) {
	topic, err := requireTopic(req.Topic)
	if err != nil {
		return PreviewResult{}, err
	}
	logger := logging.FromContext(ctx, s.logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("preview for %q failed, using default slides: %v", topic, r)
			result = PreviewResult{Topic: topic, Slides: toPreviewSlides(content.DefaultPreviewSlides(topic)), AIGenerated: false}
			err = nil
		}
	}()

	var titles []string
	if len(req.UserTitles) > 0 {
		titles = s.planner.RefineTitles(ctx, req.UserTitles, topic)
	} else {
		titles = s.planner.Plan(ctx, topic, req.NumSlides)
	}
	logger.Info("preview %q: %d titles, mode=%s", topic, len(titles), req.Mode)

	slides := make([]PreviewSlide, 0, len(titles))
	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return PreviewResult{}, err
		}
		body, style := s.synth.Synthesize(ctx, title, topic, req.Mode)
		if strings.TrimSpace(body) == "" {
			continue
		}
		if style == slide.StyleBullet {
			body = content.PrefixGlyph(body, "➣")
		}
		ps := PreviewSlide{Title: title, Content: body, Type: styleName(style)}
		slides = append(slides, ps)
		if onSlide != nil {
			onSlide(i, len(titles), ps)
		}
	}
	return PreviewResult{Topic: topic, Slides: slides, AIGenerated: true}, nil
}

// Refine rewrites one slide. Bullet output is re-marked with the request glyph.
func (s *DeckService) Refine(ctx context.Context, req RefineRequest) (RefineResult, error) {
	topic, err := requireTopic(req.Topic)
	if err != nil {
		return RefineResult{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return RefineResult{}, ValidationError("Topic and slide title are required")
	}
	styleLabel := req.Style
	if strings.TrimSpace(styleLabel) == "" {
		styleLabel = string(slide.StyleBullet)
	}
	style := slide.StyleBullet
	if parsed, ok := slide.ParseStyle(styleLabel); ok && parsed == slide.StyleParagraph {
		style = slide.StyleParagraph
	}
	glyph := req.Glyph
	if strings.TrimSpace(glyph) == "" {
		glyph = s.glyph
	}

	updated := s.refiner.Refine(ctx, title, req.Current, topic, style)
	if style == slide.StyleBullet {
		updated = content.ApplyGlyph(updated, glyph)
	}
	return RefineResult{Content: updated, Style: styleLabel}, nil
}

// Generate builds the plans for req and writes the deck into the output
// directory. The caller owns the returned file.
func (s *DeckService) Generate(ctx context.Context, req GenerateRequest) (GeneratedDeck, error) {
	topic, err := requireTopic(req.Topic)
	if err != nil {
		return GeneratedDeck{}, err
	}
	logger := logging.FromContext(ctx, s.logger)

	plans, err := s.buildPlans(ctx, topic, req.Slides)
	if err != nil {
		return GeneratedDeck{}, err
	}
	ApplySections(plans, req.Sections, logger)

	glyph := req.BulletGlyph
	if strings.TrimSpace(glyph) == "" {
		glyph = s.glyph
	}
	now := s.now()
	path := s.workspace.OutputPath(topic, now)
	style := deck.Style{
		BulletGlyph:     glyph,
		BackgroundURL:   strings.TrimSpace(req.BackgroundURL),
		ClosingImageURL: strings.TrimSpace(req.ClosingImageURL),
		Title:           topic,
	}
	if err := s.assembler.WriteFile(ctx, path, plans, style); err != nil {
		return GeneratedDeck{}, fmt.Errorf("build deck: %w", err)
	}
	logger.Info("generated %s with %d planned slides", path, len(plans))
	return GeneratedDeck{Path: path, Name: workspace.OutputName(topic, now), Plans: plans}, nil
}

func (s *DeckService) buildPlans(ctx context.Context, topic string, inputs []SlideInput) ([]slide.Plan, error) {
	if len(inputs) == 0 {
		titles := s.planner.Plan(ctx, topic, DefaultSlides)
		return s.synth.Fill(ctx, titles, topic, slide.ModeAuto), ctx.Err()
	}
	plans := make([]slide.Plan, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}
		if in.HasContent {
			plans = append(plans, slide.Plan{Title: title, Content: in.Content, Style: in.style()})
			continue
		}
		body, style := s.synth.Synthesize(ctx, title, topic, slide.ModeAuto)
		plans = append(plans, slide.Plan{Title: title, Content: body, Style: style})
	}
	return plans, nil
}

// ApplySections overrides the style of every plan whose title matches a
// section key and attaches the first custom image of detailed sections.
func ApplySections(plans []slide.Plan, sections map[string]slide.Spec, logger logging.Logger) {
	if len(sections) == 0 {
		return
	}
	logger = logging.OrNop(logger)
	for i := range plans {
		spec, ok := slide.Match(sections, plans[i].Title)
		if !ok {
			continue
		}
		plans[i].Style = spec.Style
		if !spec.Detailed {
			continue
		}
		if spec.AIImage {
			logger.Warn("AI images are not supported; ignoring for %q", plans[i].Title)
		}
		if !spec.CustomImage || len(spec.ImageData) == 0 {
			continue
		}
		data, err := deck.DecodeImageData(spec.ImageData[0])
		if err != nil {
			logger.Warn("custom image for %q: %v", plans[i].Title, err)
			continue
		}
		plans[i].Image = &slide.Image{Data: data, Caption: spec.Caption}
	}
}

func toPreviewSlides(plans []slide.Plan) []PreviewSlide {
	out := make([]PreviewSlide, 0, len(plans))
	for _, p := range plans {
		out = append(out, PreviewSlide{Title: p.Title, Content: p.Content, Type: styleName(p.Style)})
	}
	return out
}
