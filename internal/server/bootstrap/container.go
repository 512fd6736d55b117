package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"cassandra/internal/config"
	"cassandra/internal/content"
	"cassandra/internal/deck"
	"cassandra/internal/imagesearch"
	"cassandra/internal/llm"
	"cassandra/internal/logging"
	"cassandra/internal/observability"
	"cassandra/internal/server/app"
	"cassandra/internal/workspace"
)

// tokenizerWarmTimeout bounds how long startup waits for the token encoding.
const tokenizerWarmTimeout = 5 * time.Second

// Container holds every long-lived component of a process.
type Container struct {
	Config     config.Config
	Meta       config.Metadata
	Obs        *observability.Observability
	LLM        llm.Client
	Images     *imagesearch.Client
	Downloader *imagesearch.Downloader
	Workspace  *workspace.Workspace
	Planner    *content.Planner
	Assembler  *deck.Assembler
	Service    *app.DeckService
	Health     *app.HealthCheckerImpl
}

// BuildContainer wires the pipeline described by cfg. Logs go to logOut.
func BuildContainer(ctx context.Context, cfg config.Config, meta config.Metadata, logOut io.Writer) (*Container, error) {
	obs, err := observability.New(ctx, cfg.Observability, logOut)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}
	logging.SetDefault(obs.Logger)
	logger := logging.FromObservabilityWithComponent(obs.Logger, "bootstrap")

	rawClient, err := llm.NewClient(llm.ConfigFrom(cfg.LLM), logging.NewComponentLogger("llm"))
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	client := llm.NewInstrumented(rawClient, cfg.LLM.Model, obs.Metrics, obs.Tracer, logging.NewComponentLogger("llm"))
	if cfg.LLM.Provider != config.ProviderMock {
		warmCtx, cancel := context.WithTimeout(ctx, tokenizerWarmTimeout)
		if !llm.WarmTokenizer(warmCtx) {
			logger.Warn("tokenizer not ready; prompt sizes are estimated until it loads")
		}
		cancel()
	}

	ws, err := workspace.FromConfig(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if _, err := ws.EnsureTemplate(); err != nil {
		logger.Warn("blank template not written: %v", err)
	}

	images := imagesearch.NewClient(imagesearch.Config{
		APIKey:  cfg.Pexels.APIKey,
		BaseURL: cfg.Pexels.BaseURL,
		Timeout: cfg.Pexels.Timeout(),
	}, logging.NewComponentLogger("pexels"))
	downloader := imagesearch.NewDownloader(logging.NewComponentLogger("image-download"))

	deckOpts := []deck.Option{
		deck.WithImageFetcher(downloader),
		deck.WithClosingImageFinder(images),
		deck.WithMetrics(obs.Metrics),
		deck.WithTracer(obs.Tracer),
	}
	if cfg.Deck.TemplatePath != "" {
		tmpl, err := deck.LoadTemplate(cfg.Deck.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("load template: %w", err)
		}
		deckOpts = append(deckOpts, deck.WithTemplate(tmpl))
	}
	assembler, err := deck.NewAssembler(deckOpts...)
	if err != nil {
		return nil, fmt.Errorf("init assembler: %w", err)
	}

	contentOpts := []content.Option{content.WithMetrics(obs.Metrics), content.WithTracer(obs.Tracer)}
	planner := content.NewPlanner(client, contentOpts...)
	service := app.NewDeckService(
		planner,
		content.NewSynthesizer(client, contentOpts...),
		content.NewRefiner(client, contentOpts...),
		assembler,
		ws,
		app.WithDefaultGlyph(cfg.Deck.BulletGlyph),
		app.WithServiceLogger(logging.NewComponentLogger("deck-service")),
	)

	health := app.NewHealthChecker(
		app.LLMProbe{Provider: cfg.LLM.Provider, Model: cfg.LLM.Model},
		app.ImageSearchProbe{Enabled: images.Enabled()},
		app.DirectoryProbe{Name: "output_dir", Dir: ws.OutputDir},
		app.DirectoryProbe{Name: "data_dir", Dir: ws.DataDir},
	)

	return &Container{
		Config:     cfg,
		Meta:       meta,
		Obs:        obs,
		LLM:        client,
		Images:     images,
		Downloader: downloader,
		Workspace:  ws,
		Planner:    planner,
		Assembler:  assembler,
		Service:    service,
		Health:     health,
	}, nil
}

// Shutdown flushes metrics and spans.
func (c *Container) Shutdown(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Obs.Shutdown(ctx)
}
