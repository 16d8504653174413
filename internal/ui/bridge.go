package ui

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/registry"
	"librahub/internal/ui/events"
	"librahub/internal/widget"
)

// WailsBridge turns registry and widget callbacks into webview events.
// Until SetWailsApp is called every emission is dropped.
type WailsBridge struct {
	mu     sync.RWMutex
	wails  *application.App
	logger *zap.Logger
}

func NewWailsBridge(logger *zap.Logger) *WailsBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WailsBridge{logger: logger.Named("wails-bridge")}
}

// SetWailsApp updates the Wails application reference.
func (b *WailsBridge) SetWailsApp(wails *application.App) {
	b.mu.Lock()
	b.wails = wails
	b.mu.Unlock()
}

func (b *WailsBridge) app() *application.App {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.wails
}

func (b *WailsBridge) RenderCatalog(tools []domain.Tool) {
	events.EmitCatalogUpdated(b.app(), tools)
}

func (b *WailsBridge) ShowTool(view domain.ToolView) {
	events.EmitToolShow(b.app(), view)
}

func (b *WailsBridge) ShowCatalog() {
	events.EmitCatalogShow(b.app())
}

func (b *WailsBridge) Status(level domain.StatusLevel, message string) {
	if level == domain.StatusError {
		b.logger.Debug("error status", zap.String("message", message))
	}
	events.EmitStatus(b.app(), level, message)
}

func (b *WailsBridge) RequestFile(purpose domain.FilePurpose, toolID string) {
	events.EmitFileRequest(b.app(), purpose, toolID)
}

// UpdateWidgets forwards the payload to the webview. A missing window is not an error.
func (b *WailsBridge) UpdateWidgets(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	events.EmitWidgetsUpdated(b.app(), payload)
	return nil
}

var (
	_ registry.Surface  = (*WailsBridge)(nil)
	_ registry.Notifier = (*WailsBridge)(nil)
	_ registry.Picker   = (*WailsBridge)(nil)
	_ widget.Sink       = (*WailsBridge)(nil)
)
