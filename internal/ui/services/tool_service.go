package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/registry"
	"librahub/internal/ui"
	"librahub/internal/ui/events"
)

// ToolService exposes the tool catalog to the frontend.
type ToolService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewToolService(deps *ServiceDeps) *ToolService {
	return &ToolService{
		deps:   deps,
		logger: deps.loggerNamed("tool-service"),
	}
}

func (s *ToolService) registry() (*registry.Registry, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return nil, err
	}
	return coreApp.Registry(), nil
}

// ListTools returns the catalog in display order.
func (s *ToolService) ListTools() (events.CatalogUpdatedEvent, error) {
	reg, err := s.registry()
	if err != nil {
		return events.CatalogUpdatedEvent{}, err
	}
	return events.NewCatalogUpdatedEvent(reg.Tools()), nil
}

func (s *ToolService) GetStats() (domain.ToolStats, error) {
	reg, err := s.registry()
	if err != nil {
		return domain.ToolStats{}, err
	}
	return reg.Stats(), nil
}

// SelectTool opens a tool; the view is also emitted as tool:show.
func (s *ToolService) SelectTool(id string) (domain.ToolView, error) {
	reg, err := s.registry()
	if err != nil {
		return domain.ToolView{}, err
	}
	view, err := reg.SelectTool(id)
	if err != nil {
		return domain.ToolView{}, ui.MapDomainError(err)
	}
	return view, nil
}

func (s *ToolService) CloseTool() error {
	reg, err := s.registry()
	if err != nil {
		return err
	}
	reg.DeselectTool()
	return nil
}

// Back handles back navigation and reports whether a tool was closed.
func (s *ToolService) Back() (bool, error) {
	reg, err := s.registry()
	if err != nil {
		return false, err
	}
	return reg.HandleBack(), nil
}

// AddTool registers the file the user picked. The frontend passes the file text.
func (s *ToolService) AddTool(ctx context.Context, name, mediaType, content string) (events.ToolEntry, error) {
	reg, err := s.registry()
	if err != nil {
		return events.ToolEntry{}, err
	}
	tool, err := reg.AddTool(ctx, fileInput(name, mediaType, content))
	if err != nil {
		return events.ToolEntry{}, ui.MapDomainError(err)
	}
	return toEntry(tool), nil
}

// RemoveTool removes a user tool. The frontend confirms with the user before calling.
func (s *ToolService) RemoveTool(ctx context.Context, id string) (bool, error) {
	reg, err := s.registry()
	if err != nil {
		return false, err
	}
	removed, err := reg.RemoveTool(ctx, id, nil)
	if err != nil {
		return false, ui.MapDomainError(err)
	}
	return removed, nil
}

// ReplaceTool starts the replace flow; the frontend answers the file:request event.
func (s *ToolService) ReplaceTool(id string) error {
	reg, err := s.registry()
	if err != nil {
		return err
	}
	if err := reg.ReplaceTool(id); err != nil {
		return ui.MapDomainError(err)
	}
	return nil
}

func (s *ToolService) SubmitReplacement(ctx context.Context, name, mediaType, content string) (events.ToolEntry, error) {
	reg, err := s.registry()
	if err != nil {
		return events.ToolEntry{}, err
	}
	tool, err := reg.DoReplaceTool(ctx, fileInput(name, mediaType, content))
	if err != nil {
		return events.ToolEntry{}, ui.MapDomainError(err)
	}
	return toEntry(tool), nil
}

func (s *ToolService) CancelReplace() error {
	reg, err := s.registry()
	if err != nil {
		return err
	}
	reg.CancelReplace()
	return nil
}

func fileInput(name, mediaType, content string) domain.FileInput {
	return domain.FileInput{
		Name:      name,
		MediaType: mediaType,
		Reader:    strings.NewReader(content),
	}
}

func toEntry(tool domain.Tool) events.ToolEntry {
	entries := events.NewCatalogUpdatedEvent([]domain.Tool{tool}).Tools
	return entries[0]
}
