package services

import (
	"strings"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"

	"librahub/internal/app"
	"librahub/internal/ui"
)

// ServiceDeps holds shared dependencies for Wails services.
type ServiceDeps struct {
	mu sync.RWMutex

	coreApp *app.App
	logger  *zap.Logger
	wails   *application.App
}

func NewServiceDeps(coreApp *app.App, logger *zap.Logger) *ServiceDeps {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceDeps{
		coreApp: coreApp,
		logger:  logger,
	}
}

func (d *ServiceDeps) loggerNamed(name string) *zap.Logger {
	if d == nil || d.logger == nil {
		return zap.NewNop()
	}
	if strings.TrimSpace(name) == "" {
		return d.logger
	}
	return d.logger.Named(name)
}

func (d *ServiceDeps) setWailsApp(wails *application.App) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.wails = wails
	d.mu.Unlock()
}

func (d *ServiceDeps) wailsApp() *application.App {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wails
}

func (d *ServiceDeps) getCoreApp() (*app.App, error) {
	if d == nil || d.coreApp == nil {
		return nil, ui.NewError(ui.ErrCodeInternal, "Hub not initialized")
	}
	return d.coreApp, nil
}
