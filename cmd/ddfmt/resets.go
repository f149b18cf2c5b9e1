package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ddfmt/internal/calendar"
)

func newResetsCmd(flags *rootFlags) *cobra.Command {
	var (
		count   int
		icsPath string
	)

	cmd := &cobra.Command{
		Use:   "resets",
		Short: "List upcoming weekly windows",
		Long:  "List upcoming rotation windows from the configured reset schedule, or the resets recorded in an exported calendar.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			out := cmd.OutOrStdout()
			now := time.Now().UTC()

			if icsPath != "" {
				body, err := os.ReadFile(icsPath)
				if err != nil {
					return err
				}
				resets, err := calendar.Resets(body, now, now.AddDate(0, 0, 7*count))
				if err != nil {
					return err
				}
				for _, t := range resets {
					fmt.Fprintln(out, t.Format(time.RFC3339))
				}
				return nil
			}

			opts, err := flags.options()
			if err != nil {
				return err
			}
			for _, w := range opts.Reset.Upcoming(now, count) {
				fmt.Fprintf(out, "%s to %s\n", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 4, "number of windows")
	cmd.Flags().StringVar(&icsPath, "calendar", "", "read resets from an exported .ics file instead")
	return cmd
}
