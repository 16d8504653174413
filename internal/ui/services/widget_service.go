package services

import (
	"context"

	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/ui"
)

// WidgetService exposes the widget snapshot to the frontend.
type WidgetService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewWidgetService(deps *ServiceDeps) *WidgetService {
	return &WidgetService{
		deps:   deps,
		logger: deps.loggerNamed("widget-service"),
	}
}

// GetSnapshot computes the current snapshot without publishing it.
func (s *WidgetService) GetSnapshot(ctx context.Context) (domain.WidgetSnapshot, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return domain.WidgetSnapshot{}, err
	}
	snapshot, err := coreApp.Aggregator().Aggregate(ctx)
	if err != nil {
		return domain.WidgetSnapshot{}, ui.MapDomainError(err)
	}
	return snapshot, nil
}

// PublishNow runs a publish cycle outside the regular interval.
func (s *WidgetService) PublishNow(ctx context.Context) (domain.WidgetSnapshot, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return domain.WidgetSnapshot{}, err
	}
	snapshot, err := coreApp.Aggregator().Publish(ctx)
	if err != nil {
		s.logger.Warn("manual widget publish failed", zap.Error(err))
		return snapshot, ui.MapDomainError(err)
	}
	return snapshot, nil
}
