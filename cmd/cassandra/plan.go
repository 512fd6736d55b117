package main

import (
	"fmt"

	"cassandra/internal/server/app"

	"github.com/spf13/cobra"
)

func newPlanCommand(cli *CLI) *cobra.Command {
	var slides int
	cmd := &cobra.Command{
		Use:   "plan [topic]",
		Short: "Plan slide titles for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := cli.resolveTopic(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			titles, err := c.Service.PlanTopics(ctx, topic, app.ClampSlides(slides))
			if err != nil {
				return err
			}
			fmt.Fprint(cli.out, renderMarkdown(titlesMarkdown(topic, titles), cli.interactive))
			return nil
		},
	}
	cmd.Flags().IntVarP(&slides, "slides", "n", app.DefaultSlides, "number of slides (10-30)")
	return cmd
}
