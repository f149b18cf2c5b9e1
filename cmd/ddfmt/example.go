package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddfmt/internal/model"
	"ddfmt/internal/pipeline"
)

func newExampleCmd(_ *rootFlags) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print or write a sample input document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := model.FormatFromPath(out)
			if format != "" {
				var err error
				if f, err = model.ParseFormat(format); err != nil {
					return err
				}
			}
			data, err := model.EncodeExample(f)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := pipeline.WriteFile(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "example written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or toml (default: from --out extension, else json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
