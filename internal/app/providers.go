package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/blobstore"
	"librahub/internal/infra/bridge"
	"librahub/internal/infra/config"
	"librahub/internal/infra/store"
	"librahub/internal/infra/telemetry"
	"librahub/internal/registry"
	"librahub/internal/widget"
)

// Bindings are the host adapters supplied by the shell: the Wails window or the CLI.
type Bindings struct {
	Surface  registry.Surface
	Notifier registry.Notifier
	Picker   registry.Picker
	Sink     widget.Sink
}

func NewMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())
	return reg
}

func NewMetrics(reg *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(reg)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewStore(cfg config.Config, logger *zap.Logger) (*store.Store, func(), error) {
	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, domain.Wrap(domain.CodeUnavailable, "open store", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func NewBlobStore() *blobstore.Store {
	return blobstore.New()
}

func NewRegistry(db *store.Store, blobs *blobstore.Store, bindings Bindings, metrics domain.Metrics, logger *zap.Logger) *registry.Registry {
	return registry.New(db, registry.Options{
		Logger:   logger,
		Surface:  bindings.Surface,
		Notifier: bindings.Notifier,
		Picker:   bindings.Picker,
		Blobs:    blobs,
		Metrics:  metrics,
	})
}

// NewWidgetSink combines the payload file with the shell's own sink.
func NewWidgetSink(cfg config.Config, bindings Bindings, logger *zap.Logger) widget.Sink {
	return bridge.NewMultiSink(bridge.NewFileSink(cfg.Widget.OutputPath, logger), bindings.Sink)
}

func NewAggregator(db *store.Store, reg *registry.Registry, sink widget.Sink, metrics domain.Metrics, logger *zap.Logger) *widget.Aggregator {
	return widget.NewAggregator(db, reg, widget.Options{
		Logger:  logger,
		Sink:    sink,
		Metrics: metrics,
	})
}

func NewPublisher(aggregator *widget.Aggregator, cfg config.Config, logger *zap.Logger) *widget.Publisher {
	return widget.NewPublisher(aggregator, cfg.Widget.Interval(), logger)
}
