package main

import (
	"context"
	"fmt"
	"io"

	"librahub/internal/app"
	"librahub/internal/domain"
	"librahub/internal/infra/config"
	"librahub/internal/infra/telemetry"
)

// session is one opened hub: config, store and registry loaded for a single command.
type session struct {
	app     *app.App
	cleanup func()
}

func openSession(ctx context.Context, opts *cliOptions, stderr io.Writer) (*session, error) {
	overrides := map[string]any{}
	if opts.storePath != "" {
		overrides[config.KeyStorePath] = opts.storePath
	}
	cfg, err := config.NewLoader(opts.logger).Load(ctx, config.Options{
		Path:      opts.configPath,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	notifier := &stderrNotifier{out: stderr}
	coreApp, cleanup, err := app.InitializeApp(cfg, app.Bindings{Notifier: notifier}, app.LoggingConfig{
		Logger: opts.logger,
		Source: telemetry.LogSourceCLI,
	})
	if err != nil {
		return nil, fmt.Errorf("open hub: %w", err)
	}
	if err := coreApp.Load(ctx); err != nil {
		// Anything short of an unreadable store leaves a usable catalog.
		if code, _ := domain.CodeFrom(err); code == domain.CodeUnavailable {
			cleanup()
			return nil, err
		}
	}
	return &session{app: coreApp, cleanup: cleanup}, nil
}

func (s *session) Close() {
	if s == nil || s.cleanup == nil {
		return
	}
	s.app.Stop()
	s.cleanup()
}

// stderrNotifier prints status messages for the terminal user.
type stderrNotifier struct {
	out io.Writer
}

func (n *stderrNotifier) Status(level domain.StatusLevel, message string) {
	if n.out == nil {
		return
	}
	if level == domain.StatusError {
		fmt.Fprintf(n.out, "error: %s\n", message)
		return
	}
	fmt.Fprintln(n.out, message)
}
