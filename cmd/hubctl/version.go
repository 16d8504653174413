package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librahub/internal/buildinfo"
)

func newVersionCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hubctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"version": buildinfo.Version,
					"build":   buildinfo.Build,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hubctl %s (%s)\n", buildinfo.Version, buildinfo.Build)
			return err
		},
	}
}
