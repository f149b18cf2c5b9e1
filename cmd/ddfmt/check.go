package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ddfmt/internal/pipeline"
	"ddfmt/internal/schedule"
)

func newCheckCmd(flags *rootFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the input document against the schema and reset schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if input != "" {
				opts.Input = input
			}

			info, err := pipeline.LoadInput(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok (%s to %s)\n", opts.Input,
				info.Start.Format(time.DateOnly), info.End.Format(time.DateOnly))

			now := time.Now()
			if schedule.Stale(info.DateRange, now) {
				cur := opts.Reset.WindowAt(now)
				fmt.Fprintf(out, "stale: current window is %s to %s\n",
					cur.Start.Format(time.DateOnly), cur.End.Format(time.DateOnly))
			}
			if !opts.Reset.Aligned(info.DateRange) {
				fmt.Fprintf(out, "warning: window does not match reset schedule %s\n", opts.Reset)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input document (overrides config)")
	return cmd
}
