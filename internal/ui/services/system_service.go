package services

import (
	"context"

	"go.uber.org/zap"

	"librahub/internal/buildinfo"
	"librahub/internal/infra/bridge"
)

// SystemService exposes system-level utility APIs.
type SystemService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewSystemService(deps *ServiceDeps) *SystemService {
	return &SystemService{
		deps:   deps,
		logger: deps.loggerNamed("system-service"),
	}
}

// GetVersion returns app version.
func (s *SystemService) GetVersion() string {
	return buildinfo.Version
}

// GetDevice returns the host description probed at startup.
func (s *SystemService) GetDevice() bridge.DeviceInfo {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return bridge.DeviceInfo{}
	}
	return coreApp.Device()
}

// Ping responds with pong.
func (s *SystemService) Ping(_ context.Context) string {
	s.logger.Debug("ping received")
	return "pong"
}
