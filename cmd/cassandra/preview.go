package main

import (
	"fmt"
	"strings"

	"cassandra/internal/domain/slide"
	"cassandra/internal/server/app"

	"github.com/spf13/cobra"
)

func newPreviewCommand(cli *CLI) *cobra.Command {
	var (
		slides int
		mode   string
		titles []string
	)
	cmd := &cobra.Command{
		Use:   "preview [topic]",
		Short: "Plan titles and write content without building a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := cli.resolveTopic(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("mode") && cli.interactive {
				if mode, err = promptMode(); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			req := app.PreviewRequest{
				Topic:      topic,
				NumSlides:  app.ClampSlides(slides),
				Mode:       slide.ParseMode(mode),
				UserTitles: trimTitles(titles),
			}
			result, err := c.Service.Preview(ctx, req, func(index, total int, ps app.PreviewSlide) {
				if cli.interactive {
					fmt.Fprintf(cli.errOut, "%s %s\n", gray(fmt.Sprintf("[%d/%d]", index+1, total)), ps.Title)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cli.out, renderMarkdown(previewMarkdown(result), cli.interactive))
			return nil
		},
	}
	cmd.Flags().IntVarP(&slides, "slides", "n", app.DefaultSlides, "number of slides (10-30)")
	cmd.Flags().StringVar(&mode, "mode", "auto", "auto, paragraph or bullet")
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "use these titles instead of planning")
	return cmd
}

func trimTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
