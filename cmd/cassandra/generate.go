package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cassandra/internal/deck"
	"cassandra/internal/domain/slide"
	"cassandra/internal/server/app"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	slides       int
	background   string
	closingImage string
	bullet       string
	sectionsFile string
	pdf          bool
}

func newGenerateCommand(cli *CLI) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Build a .pptx deck for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := cli.resolveTopic(args)
			if err != nil {
				return err
			}
			sections, err := loadSections(opts.sectionsFile)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			titles, err := c.Service.PlanTopics(ctx, topic, app.ClampSlides(opts.slides))
			if err != nil {
				return err
			}
			inputs := make([]app.SlideInput, 0, len(titles))
			for _, title := range titles {
				inputs = append(inputs, app.SlideInput{Title: title})
			}
			built, err := c.Service.Generate(ctx, app.GenerateRequest{
				Topic:           topic,
				Slides:          inputs,
				BackgroundURL:   opts.background,
				ClosingImageURL: opts.closingImage,
				BulletGlyph:     opts.bullet,
				Sections:        sections,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, successText("deck written to "+bold(built.Path)))

			if opts.pdf {
				path, err := writeHandout(built, topic)
				if err != nil {
					return err
				}
				fmt.Fprintln(cli.out, successText("handout written to "+bold(path)))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&opts.slides, "slides", "n", app.DefaultSlides, "number of slides (10-30)")
	flags.StringVar(&opts.background, "background", "", "background image URL")
	flags.StringVar(&opts.closingImage, "closing-image", "", "closing slide image URL")
	flags.StringVar(&opts.bullet, "bullet", "", "bullet glyph")
	flags.StringVar(&opts.sectionsFile, "sections", "", "JSON file mapping section titles to styles")
	flags.BoolVar(&opts.pdf, "pdf", false, "also write a PDF handout next to the deck")
	return cmd
}

// loadSections reads a section configuration. An empty path means none.
func loadSections(path string) (map[string]slide.Spec, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	var sections map[string]slide.Spec
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse sections %s: %w", path, err)
	}
	return sections, nil
}

func handoutPath(deckPath string) string {
	return strings.TrimSuffix(deckPath, ".pptx") + ".pdf"
}

func writeHandout(built app.GeneratedDeck, topic string) (path string, err error) {
	path = handoutPath(built.Path)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create handout: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close handout: %w", cerr)
		}
	}()
	if err := deck.WriteHandout(f, built.Plans, deck.HandoutOptions{Topic: topic}); err != nil {
		return "", fmt.Errorf("write handout: %w", err)
	}
	return path, nil
}
