package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "ddfmt/internal/log"
	"ddfmt/internal/pipeline"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		input  string
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the input document into the chat post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			// CLI paths override the config file.
			if input != "" {
				opts.Input = input
			}
			if output != "" {
				opts.Output = output
			}

			if !watch {
				_, err := pipeline.Run(cmd.Context(), opts)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return pipeline.Watch(ctx, opts, func(_ pipeline.Result, err error) {
				if err != nil {
					appLog.Error("render failed", err, "input", opts.Input)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input document (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (overrides config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the input changes")
	return cmd
}
