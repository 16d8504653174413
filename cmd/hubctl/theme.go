package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librahub/internal/theme"
)

func newThemeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the light/dark preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTheme(cmd, opts, false)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTheme(cmd, opts, false)
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTheme(cmd, opts, true)
			},
		},
	)
	return cmd
}

func runTheme(cmd *cobra.Command, opts *cliOptions, toggle bool) error {
	s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	var value string
	if toggle {
		value, err = theme.Toggle(s.app.Store())
	} else {
		value, err = theme.Get(s.app.Store())
	}
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"theme": value})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}
