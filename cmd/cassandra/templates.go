package main

import (
	"fmt"
	"io"

	"cassandra/internal/imagesearch"

	"github.com/spf13/cobra"
)

type templatesOptions struct {
	color    string
	query    string
	count    int
	colors   bool
	thankYou int
}

func newTemplatesCommand(cli *CLI) *cobra.Command {
	var opts templatesOptions
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Search background and closing images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.colors {
				printColors(cli.out, imagesearch.Colors())
				return nil
			}
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if !c.Images.Enabled() {
				return fmt.Errorf("image search needs PEXELS_API_KEY: %w", imagesearch.ErrNoAPIKey)
			}
			var photos []imagesearch.Photo
			if opts.thankYou > 0 {
				photos, err = c.Images.ThankYouImages(ctx, opts.thankYou)
			} else {
				photos, err = c.Images.Backgrounds(ctx, opts.color, opts.query, opts.count)
			}
			if err != nil {
				return err
			}
			printPhotos(cli.out, photos)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.color, "color", "pink", "background colour")
	flags.StringVar(&opts.query, "query", "abstract background", "search terms")
	flags.IntVar(&opts.count, "count", 12, "number of results")
	flags.BoolVar(&opts.colors, "colors", false, "list supported colours")
	flags.IntVar(&opts.thankYou, "thank-you", 0, "search this many closing images instead")
	return cmd
}

func printColors(w io.Writer, colors []imagesearch.Color) {
	for _, c := range colors {
		fmt.Fprintf(w, "%-8s %s\n", c.Name, gray(c.Hex))
	}
}

func printPhotos(w io.Writer, photos []imagesearch.Photo) {
	if len(photos) == 0 {
		fmt.Fprintln(w, yellow("no images found"))
		return
	}
	for _, p := range photos {
		fmt.Fprintf(w, "%s %s\n  %s\n", cyan(fmt.Sprintf("#%d", p.ID)), p.Alt, blue(p.URL))
	}
}
