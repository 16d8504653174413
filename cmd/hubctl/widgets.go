package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWidgetsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "Compute and publish the home-screen widget snapshot",
	}
	cmd.AddCommand(
		newWidgetsSnapshotCmd(opts),
		newWidgetsServeCmd(opts),
	)
	return cmd
}

func newWidgetsSnapshotCmd(opts *cliOptions) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the current widget snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			aggregator := s.app.Aggregator()
			if publish {
				snapshot, err := aggregator.Publish(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			snapshot, err := aggregator.Aggregate(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snapshot)
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "also write the snapshot to the configured widget output")
	return cmd
}

func newWidgetsServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Publish widget snapshots on the configured interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.app.Start(ctx); err != nil {
				return err
			}
			cfg := s.app.Config()
			opts.logger.Info("widget publisher running",
				zap.String("output", cfg.Widget.OutputPath),
				zap.Duration("interval", cfg.Widget.Interval()),
				zap.String("inbox", cfg.Inbox.Dir),
				zap.String("observability", cfg.Observability.ListenAddress),
			)
			<-ctx.Done()

			started := time.Now()
			s.app.Stop()
			opts.logger.Info("widget publisher stopped", zap.Duration("shutdown", time.Since(started)))
			return nil
		},
	}
}
