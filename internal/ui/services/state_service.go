package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/store"
	"librahub/internal/ui"
)

// StateService is the local-storage surface for hosted tools: each tool keeps
// its own state under keys it chooses, and the widget aggregator reads them back.
type StateService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewStateService(deps *ServiceDeps) *StateService {
	return &StateService{
		deps:   deps,
		logger: deps.loggerNamed("state-service"),
	}
}

func (s *StateService) store() (*store.Store, error) {
	coreApp, err := s.deps.getCoreApp()
	if err != nil {
		return nil, err
	}
	return coreApp.Store(), nil
}

// GetItem returns nil for a missing key.
func (s *StateService) GetItem(key string) (*string, error) {
	db, err := s.store()
	if err != nil {
		return nil, err
	}
	value, ok, err := db.Get(key)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (s *StateService) SetItem(key, value string) error {
	if err := checkToolKey(key); err != nil {
		return err
	}
	db, err := s.store()
	if err != nil {
		return err
	}
	if err := db.Set(key, value); err != nil {
		return mapStoreError(err)
	}
	s.logger.Debug("tool state written", zap.String("store_key", key), zap.Int("bytes", len(value)))
	return nil
}

func (s *StateService) RemoveItem(key string) error {
	if err := checkToolKey(key); err != nil {
		return err
	}
	db, err := s.store()
	if err != nil {
		return err
	}
	if err := db.Remove(key); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// checkToolKey keeps hosted tools away from the hub's own keys.
func checkToolKey(key string) error {
	switch strings.TrimSpace(key) {
	case "":
		return ui.NewError(ui.ErrCodeInvalidRequest, "Key is required")
	case domain.RegistryKey, domain.ThemeKey:
		return ui.NewError(ui.ErrCodeInvalidRequest, "Key is reserved by the hub")
	}
	return nil
}

func mapStoreError(err error) error {
	if errors.Is(err, store.ErrInvalidKey) {
		return ui.NewErrorWithDetails(ui.ErrCodeInvalidRequest, "Invalid key", err.Error())
	}
	return ui.NewErrorWithDetails(ui.ErrCodeStoreUnavailable, "Storage is unavailable", err.Error())
}
