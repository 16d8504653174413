// Package app wires the hub components from configuration and owns their lifecycle.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/blobstore"
	"librahub/internal/infra/bridge"
	"librahub/internal/infra/config"
	"librahub/internal/infra/inbox"
	"librahub/internal/infra/store"
	"librahub/internal/infra/telemetry"
	"librahub/internal/registry"
	"librahub/internal/widget"
)

const defaultStopTimeout = 5 * time.Second

// App owns the registry, the widget aggregator and their collaborators.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	metricsRegistry *prometheus.Registry
	metrics         domain.Metrics
	health          *telemetry.HealthTracker
	store           *store.Store
	blobs           *blobstore.Store
	registry        *registry.Registry
	aggregator      *widget.Aggregator
	publisher       *widget.Publisher

	mu      sync.Mutex
	device  bridge.DeviceInfo
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

// AppOptions captures dependencies for App.
type AppOptions struct {
	Config          config.Config
	Logger          *zap.Logger
	MetricsRegistry *prometheus.Registry
	Metrics         domain.Metrics
	Health          *telemetry.HealthTracker
	Store           *store.Store
	Blobs           *blobstore.Store
	Registry        *registry.Registry
	Aggregator      *widget.Aggregator
	Publisher       *widget.Publisher
}

func NewApp(opts AppOptions) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:             opts.Config,
		logger:          logger,
		metricsRegistry: opts.MetricsRegistry,
		metrics:         opts.Metrics,
		health:          opts.Health,
		store:           opts.Store,
		blobs:           opts.Blobs,
		registry:        opts.Registry,
		aggregator:      opts.Aggregator,
		publisher:       opts.Publisher,
	}
}

// Load reads the tool registry. A store failure is reported but leaves the
// app usable with whatever the registry holds.
func (a *App) Load(ctx context.Context) error {
	err := a.registry.Load(ctx)
	code, _ := domain.CodeFrom(err)
	a.health.RecordStore(code != domain.CodeUnavailable)
	if err != nil {
		a.logger.Warn("tool registry load failed", zap.Error(err))
	}
	return err
}

// Start loads the registry and launches the background workers: the widget
// publisher, the inbox watcher and the observability server when configured.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	device := bridge.ProbeDevice(a.logger)
	a.mu.Lock()
	a.device = device
	a.mu.Unlock()
	a.logger.Info("hub starting",
		zap.String("store", a.cfg.StorePath),
		zap.String("os", device.OS),
		zap.Duration("widget_interval", a.publisher.Interval()),
	)

	if err := a.Load(runCtx); err != nil {
		// Load has already logged and surfaced the failure; the workers run on the catalog it left.
		a.logger.Debug("hub starting after registry load failure", zap.Error(err))
	}

	a.publisher.OnPublish(func(at time.Time, _ domain.WidgetSnapshot, err error) {
		a.health.RecordPublish(at, err)
	})
	a.publisher.Start(runCtx)

	if dir := a.cfg.Inbox.Dir; dir != "" {
		watcher := inbox.NewWatcher(dir, a.registry, a.logger)
		a.goWorker(func() {
			if err := watcher.Run(runCtx); err != nil {
				a.logger.Warn("inbox watcher stopped", zap.Error(err))
			}
		})
	}

	if addr := a.cfg.Observability.ListenAddress; addr != "" {
		a.goWorker(func() {
			err := telemetry.StartHTTPServer(runCtx, telemetry.HTTPServerOptions{
				Addr:          addr,
				EnableMetrics: true,
				EnableHealthz: true,
				Health:        a.health,
				Registry:      a.metricsRegistry,
			}, a.logger)
			if err != nil {
				a.logger.Warn("observability server stopped", zap.Error(err))
			}
		})
	}
	return nil
}

func (a *App) goWorker(fn func()) {
	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		fn()
	}()
}

// Stop halts the background workers.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}

	if err := a.publisher.StopWithTimeout(defaultStopTimeout); err != nil {
		a.logger.Warn("widget publisher stop timed out", zap.Error(err))
	}
	cancel()
	a.workers.Wait()
	a.logger.Info("hub stopped")
}

func (a *App) Config() config.Config { return a.cfg }
func (a *App) Logger() *zap.Logger { return a.logger }
func (a *App) Store() *store.Store { return a.store }
func (a *App) Blobs() *blobstore.Store { return a.blobs }
func (a *App) Registry() *registry.Registry { return a.registry }
func (a *App) Aggregator() *widget.Aggregator { return a.aggregator }
func (a *App) Publisher() *widget.Publisher { return a.publisher }
func (a *App) Health() *telemetry.HealthTracker { return a.health }
func (a *App) MetricsRegistry() *prometheus.Registry { return a.metricsRegistry }

func (a *App) Device() bridge.DeviceInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.device
}
