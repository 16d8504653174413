package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gorilla/mux"
	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"librahub/internal/app"
	"librahub/internal/infra/config"
	"librahub/internal/infra/telemetry"
	"librahub/internal/ui"
	"librahub/internal/ui/events"
	"librahub/internal/ui/services"
)

const configEnv = "LIBRAHUB_CONFIG"

func main() {
	// 1. Logger first, level adjusted once config is known.
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger := createLogger(level)
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.NewLoader(logger).Load(context.Background(), config.Options{Path: os.Getenv(configEnv)})
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if parsed, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		level.SetLevel(parsed)
	}

	// 2. Core app with the webview as surface, notifier, picker and widget sink.
	uiLogger := logger.With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceUI))
	bridge := ui.NewWailsBridge(uiLogger)
	coreApp, cleanup, err := app.InitializeApp(cfg, app.Bindings{
		Surface:  bridge,
		Notifier: bridge,
		Picker:   bridge,
		Sink:     bridge,
	}, app.LoggingConfig{Logger: logger})
	if err != nil {
		logger.Fatal("failed to initialize hub", zap.Error(err))
	}

	serviceRegistry := services.NewServiceRegistry(coreApp, uiLogger)

	router := mux.NewRouter()
	coreApp.Blobs().Register(router)
	router.PathPrefix("/").Handler(application.AssetFileServerFS(Assets))

	wailsApp := application.New(application.Options{
		Name:        "Libra Hub",
		Description: "Personal tool hub",
		Services:    serviceRegistry.Services(),
		Assets: application.AssetOptions{
			Handler: router,
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
		LogLevel: slog.LevelInfo,
		OnShutdown: func() {
			coreApp.Stop()
			cleanup()
		},
	})

	// 3. Inject the Wails instance.
	serviceRegistry.SetWailsApp(wailsApp)
	bridge.SetWailsApp(wailsApp)

	wailsApp.Event.On(events.EventBack, func(_ *application.CustomEvent) {
		coreApp.Registry().HandleBack()
	})

	if err := coreApp.Start(context.Background()); err != nil {
		logger.Error("hub start failed", zap.Error(err))
	}

	wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "Libra Hub",
		Width:            1100,
		Height:           760,
		BackgroundColour: application.NewRGB(255, 255, 255),
		URL:              "/",
		Mac: application.MacWindow{
			InvisibleTitleBarHeight: 50,
			Backdrop:                application.MacBackdropTranslucent,
			TitleBar:                application.MacTitleBarHiddenInset,
		},
	})

	uiLogger.Info("starting Libra Hub")
	if err := wailsApp.Run(); err != nil {
		logger.Error("wails run failed", zap.Error(err))
		return
	}
}

func createLogger(level zap.AtomicLevel) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger
}
