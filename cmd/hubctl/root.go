package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"librahub/internal/domain"
)

type cliOptions struct {
	configPath string
	storePath  string
	jsonOutput bool
	logLevel   string
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		logLevel: "warn",
		logger:   zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Manage Libra Hub tools and widgets from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			logger, err := newCLILogger(opts.logLevel)
			if err != nil {
				return exitError{code: exitCodeUsage, message: err.Error()}
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (optional)")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "path to the hub store (overrides config)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newToolsCmd(&opts),
		newWidgetsCmd(&opts),
		newThemeCmd(&opts),
		newVersionCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "store":
			opts.storePath, _ = flags.GetString("store")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		case "log-level":
			opts.logLevel, _ = flags.GetString("log-level")
		}
	})
	if opts.configPath == "" {
		opts.configPath = os.Getenv("LIBRAHUB_CONFIG")
	}
}

func newCLILogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = domain.DefaultLogLevel
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
