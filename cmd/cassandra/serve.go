package main

import (
	"cassandra/internal/server/bootstrap"

	"github.com/spf13/cobra"
)

func newServeCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, cleanup, err := cli.container(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			bootstrap.LogConfiguration(c.Obs.Logger, c.Config, c.Meta)
			server := bootstrap.NewHTTPServer(c, cli.v.GetBool("debug"))
			return bootstrap.RunServer(ctx, c, server)
		},
	}
	cmd.Flags().String("port", "", "listen port (default 5000 or $PORT)")
	cmd.Flags().Bool("debug", false, "gin debug mode")
	cli.bindFlags(cmd.Flags())
	return cmd
}
