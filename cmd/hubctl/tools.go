package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"librahub/internal/domain"
	"librahub/internal/registry"
)

func newToolsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and manage installed tools",
	}
	cmd.AddCommand(
		newToolsListCmd(opts),
		newToolsAddCmd(opts),
		newToolsRemoveCmd(opts),
		newToolsReplaceCmd(opts),
		newToolsShowCmd(opts),
		newToolsStatsCmd(opts),
		newToolsExportCmd(opts),
	)
	return cmd
}

func newToolsListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			return printTools(cmd.OutOrStdout(), s.app.Registry().Tools(), opts.jsonOutput)
		},
	}
}

func newToolsAddCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Add an HTML file as a custom tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			tool, err := withFile(args[0], func(input domain.FileInput) (domain.Tool, error) {
				return s.app.Registry().AddTool(cmd.Context(), input)
			})
			if err != nil {
				return err
			}
			return printTool(cmd.OutOrStdout(), tool, opts.jsonOutput)
		},
	}
}

func newToolsRemoveCmd(opts *cliOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			confirmer := registry.AlwaysConfirm
			if !yes {
				confirmer = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			}
			removed, err := s.app.Registry().RemoveTool(cmd.Context(), args[0], confirmer)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": args[0], "removed": removed})
			}
			if !removed {
				return exitSilent(exitCodeFailure)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newToolsReplaceCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replace <id> <file>",
		Short: "Replace the content of a custom tool, keeping its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			reg := s.app.Registry()
			if err := reg.ReplaceTool(args[0]); err != nil {
				return err
			}
			tool, err := withFile(args[1], func(input domain.FileInput) (domain.Tool, error) {
				return reg.DoReplaceTool(cmd.Context(), input)
			})
			if err != nil {
				reg.CancelReplace()
				return err
			}
			return printTool(cmd.OutOrStdout(), tool, opts.jsonOutput)
		},
	}
}

func newToolsShowCmd(opts *cliOptions) *cobra.Command {
	var content bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			tool, ok := s.app.Registry().Get(args[0])
			if !ok {
				return exitError{code: exitCodeNotFound, message: fmt.Sprintf("tool %q not found", args[0])}
			}
			if content {
				_, err := io.WriteString(cmd.OutOrStdout(), tool.Content)
				return err
			}
			return printTool(cmd.OutOrStdout(), tool, opts.jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&content, "content", false, "print the stored HTML instead of the metadata")
	return cmd
}

func newToolsStatsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			stats := s.app.Registry().Stats()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "total=%d default=%d custom=%d\n", stats.Total, stats.Default, stats.Custom)
			return err
		},
	}
}

func newToolsExportCmd(opts *cliOptions) *cobra.Command {
	var format string
	var withContent bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as json, yaml or toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			tools := s.app.Registry().Tools()
			if !withContent {
				for i := range tools {
					tools[i].Content = ""
					tools[i].ContentURL = ""
				}
			}
			return exportTools(cmd.OutOrStdout(), tools, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml or toml")
	cmd.Flags().BoolVar(&withContent, "with-content", false, "include the HTML content of custom tools")
	return cmd
}

// withFile opens path as a FileInput whose media type is derived from the extension.
func withFile(path string, fn func(domain.FileInput) (domain.Tool, error)) (domain.Tool, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Tool{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return fn(domain.FileInput{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Reader:    file,
	})
}

func promptConfirmer(in io.Reader, out io.Writer) registry.Confirmer {
	return registry.ConfirmFunc(func(ctx context.Context, tool domain.Tool) (bool, error) {
		fmt.Fprintf(out, "Remove %q (%s)? [y/N] ", tool.Name, tool.ID)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}
