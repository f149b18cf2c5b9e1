package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ddfmt/internal/pipeline"
	"ddfmt/internal/web"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a preview of the post, calendar and upcoming windows over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := flags.load()
			if err != nil {
				return err
			}
			// CLI flag overrides config listen address.
			if listen != "" {
				conf.Listen = listen
			}
			opts, err := pipeline.OptionsFromConfig(conf)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.Serve(ctx, conf.Listen, web.NewServer(opts, conf.BasicAuth))
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides config)")
	return cmd
}
