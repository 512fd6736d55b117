package main

import (
	"fmt"
	"io"
	"strings"

	"cassandra/internal/diff"
	"cassandra/internal/server/app"

	"github.com/spf13/cobra"
)

func newRefineCommand(cli *CLI) *cobra.Command {
	var req app.RefineRequest
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Rewrite one slide's content",
		Long:  "Rewrite one slide's content. The current content is read from --content or, when omitted, from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("content") && !cli.interactive {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read content: %w", err)
				}
				req.Current = string(data)
			}
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := c.Service.Refine(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, result.Content)
			if strings.TrimSpace(req.Current) != "" {
				fmt.Fprintln(cli.errOut, gray("---"))
				fmt.Fprint(cli.errOut, diff.Render(req.Current, result.Content, cli.interactive))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Topic, "topic", "", "presentation topic")
	flags.StringVar(&req.Title, "title", "", "slide title")
	flags.StringVar(&req.Current, "content", "", "current slide content")
	flags.StringVar(&req.Style, "style", "bullet", "paragraph or bullet")
	flags.StringVar(&req.Glyph, "glyph", "", "bullet glyph")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
