package registry

import (
	"context"

	"librahub/internal/domain"
)

// KV is the slice of the local store the registry depends on.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Surface renders the catalog and the active tool.
type Surface interface {
	RenderCatalog(tools []domain.Tool)
	ShowTool(view domain.ToolView)
	ShowCatalog()
}

// Notifier shows transient status messages to the user.
type Notifier interface {
	Status(level domain.StatusLevel, message string)
}

// Picker starts a file-selection flow whose result is fed back into AddTool or DoReplaceTool.
type Picker interface {
	RequestFile(purpose domain.FilePurpose, toolID string)
}

// Confirmer asks the user whether a tool may be removed.
type Confirmer interface {
	Confirm(ctx context.Context, tool domain.Tool) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, tool domain.Tool) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, tool domain.Tool) (bool, error) {
	return f(ctx, tool)
}

// AlwaysConfirm approves every removal.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, domain.Tool) (bool, error) {
	return true, nil
})

// BlobStore hands out transient URLs for in-memory documents.
type BlobStore interface {
	Create(content []byte, mediaType string) string
	Revoke(url string)
}

type noopSurface struct{}

func (noopSurface) RenderCatalog([]domain.Tool) {}
func (noopSurface) ShowTool(domain.ToolView)    {}
func (noopSurface) ShowCatalog()                {}

type noopNotifier struct{}

func (noopNotifier) Status(domain.StatusLevel, string) {}

type noopPicker struct{}

func (noopPicker) RequestFile(domain.FilePurpose, string) {}

type noopBlobs struct{}

func (noopBlobs) Create([]byte, string) string { return "" }
func (noopBlobs) Revoke(string)                {}
