//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"librahub/internal/infra/config"
)

func InitializeApp(cfg config.Config, bindings Bindings, logging LoggingConfig) (*App, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}
