package main

import (
	"github.com/spf13/cobra"

	"ddfmt/internal/model"
	"ddfmt/internal/pipeline"
)

func newConvertCmd(_ *rootFlags) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Re-encode a schedule document in another format",
		Long:  "Decode a JSON, YAML or TOML schedule and write it in canonical form. Without an output path the result goes to stdout.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}

			f := model.FormatJSON
			if len(args) == 2 {
				f = model.FormatFromPath(args[1])
			}
			if to != "" {
				if f, err = model.ParseFormat(to); err != nil {
					return err
				}
			}

			data, err := model.EncodeFormat(info, f)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return pipeline.WriteFile(args[1], data)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "json, yaml or toml (default: from output extension, else json)")
	return cmd
}
