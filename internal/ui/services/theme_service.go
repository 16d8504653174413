package services

import (
	"go.uber.org/zap"

	"librahub/internal/theme"
	"librahub/internal/ui"
)

// ThemeService persists the light/dark preference.
type ThemeService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewThemeService(deps *ServiceDeps) *ThemeService {
	return &ThemeService{
		deps:   deps,
		logger: deps.loggerNamed("theme-service"),
	}
}

func (s *ThemeService) GetTheme() (string, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return theme.Light, err
	}
	current, err := theme.Get(coreApp.Store())
	if err != nil {
		s.logger.Warn("theme read failed", zap.Error(err))
		return current, ui.MapDomainError(err)
	}
	return current, nil
}

func (s *ThemeService) ToggleTheme() (string, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return theme.Light, err
	}
	next, err := theme.Toggle(coreApp.Store())
	if err != nil {
		return next, ui.MapDomainError(err)
	}
	return next, nil
}

func (s *ThemeService) SetTheme(value string) error {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return err
	}
	if err := theme.Set(coreApp.Store(), value); err != nil {
		return ui.MapDomainError(err)
	}
	return nil
}
