package services

import (
	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"

	"librahub/internal/app"
)

// ServiceRegistry wires all Wails services together.
type ServiceRegistry struct {
	deps *ServiceDeps

	System *SystemService
	Tool   *ToolService
	Widget *WidgetService
	State  *StateService
	Theme  *ThemeService
}

func NewServiceRegistry(coreApp *app.App, logger *zap.Logger) *ServiceRegistry {
	deps := NewServiceDeps(coreApp, logger)
	return &ServiceRegistry{
		deps:   deps,
		System: NewSystemService(deps),
		Tool:   NewToolService(deps),
		Widget: NewWidgetService(deps),
		State:  NewStateService(deps),
		Theme:  NewThemeService(deps),
	}
}

func (r *ServiceRegistry) Services() []application.Service {
	return []application.Service{
		application.NewService(r.System),
		application.NewService(r.Tool),
		application.NewService(r.Widget),
		application.NewService(r.State),
		application.NewService(r.Theme),
	}
}

func (r *ServiceRegistry) SetWailsApp(wails *application.App) {
	if r == nil || r.deps == nil {
		return
	}
	r.deps.setWailsApp(wails)
}
