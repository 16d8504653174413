//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
	NewStore,
	NewBlobStore,
)

var HubSet = wire.NewSet(
	NewRegistry,
	NewWidgetSink,
	NewAggregator,
	NewPublisher,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	HubSet,
	wire.Struct(new(AppOptions), "*"),
	NewApp,
)
