package events

import (
	"encoding/json"

	"github.com/wailsapp/wails/v3/pkg/application"

	"librahub/internal/domain"
	"librahub/internal/infra/hashutil"
)

// Event name constants for Wails event emission.
const (
	// Display surface events.
	EventToolShow       = "tool:show"
	EventCatalogShow    = "catalog:show"
	EventCatalogUpdated = "catalog:updated"

	// User feedback.
	EventStatus      = "status"
	EventFileRequest = "file:request"

	// Widget payload events.
	EventWidgetsUpdated = "widgets:updated"

	// Error events.
	EventError = "error"

	// Emitted by the frontend on hardware or keyboard back navigation.
	EventBack = "app:back"
)

// StatusEvent is a transient message; the frontend removes it after DismissAfterMs.
type StatusEvent struct {
	Level          string `json:"level"`
	Message        string `json:"message"`
	DismissAfterMs int64  `json:"dismissAfterMs"`
}

// ToolEntry is the catalog card of one tool. Content is omitted.
type ToolEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
	Removable   bool   `json:"removable"`
	DateAdded   string `json:"dateAdded,omitempty"`
	DateUpdated string `json:"dateUpdated,omitempty"`
}

// CatalogUpdatedEvent carries the whole catalog in display order.
type CatalogUpdatedEvent struct {
	Tools []ToolEntry      `json:"tools"`
	Stats domain.ToolStats `json:"stats"`
	ETag  string           `json:"etag"`
}

// FileRequestEvent asks the frontend to open its file picker.
type FileRequestEvent struct {
	Purpose string `json:"purpose"`
	ToolID  string `json:"toolId,omitempty"`
	Accept  string `json:"accept"`
}

// WidgetsUpdatedEvent wraps the serialized widget snapshot.
type WidgetsUpdatedEvent struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewStatusEvent(level domain.StatusLevel, message string) StatusEvent {
	return StatusEvent{
		Level:          string(level),
		Message:        message,
		DismissAfterMs: domain.DefaultStatusDismiss.Milliseconds(),
	}
}

func NewCatalogUpdatedEvent(tools []domain.Tool) CatalogUpdatedEvent {
	entries := make([]ToolEntry, 0, len(tools))
	stats := domain.ToolStats{Total: len(tools)}
	for _, tool := range tools {
		if tool.IsDefault {
			stats.Default++
		} else {
			stats.Custom++
		}
		entries = append(entries, ToolEntry{
			ID:          tool.ID,
			Name:        tool.Name,
			Icon:        tool.Icon,
			Description: tool.Description,
			IsDefault:   tool.IsDefault,
			Removable:   tool.Removable(),
			DateAdded:   tool.DateAdded,
			DateUpdated: tool.DateUpdated,
		})
	}
	return CatalogUpdatedEvent{Tools: entries, Stats: stats, ETag: hashutil.CatalogETag(nil, tools)}
}

func NewFileRequestEvent(purpose domain.FilePurpose, toolID string) FileRequestEvent {
	return FileRequestEvent{
		Purpose: string(purpose),
		ToolID:  toolID,
		Accept:  ".html,.htm," + domain.HTMLMediaType,
	}
}

func EmitStatus(app *application.App, level domain.StatusLevel, message string) {
	if app == nil {
		return
	}
	app.Event.Emit(EventStatus, NewStatusEvent(level, message))
}

func EmitToolShow(app *application.App, view domain.ToolView) {
	if app == nil {
		return
	}
	app.Event.Emit(EventToolShow, view)
}

func EmitCatalogShow(app *application.App) {
	if app == nil {
		return
	}
	app.Event.Emit(EventCatalogShow, nil)
}

func EmitCatalogUpdated(app *application.App, tools []domain.Tool) {
	if app == nil {
		return
	}
	app.Event.Emit(EventCatalogUpdated, NewCatalogUpdatedEvent(tools))
}

func EmitFileRequest(app *application.App, purpose domain.FilePurpose, toolID string) {
	if app == nil {
		return
	}
	app.Event.Emit(EventFileRequest, NewFileRequestEvent(purpose, toolID))
}

func EmitWidgetsUpdated(app *application.App, payload []byte) {
	if app == nil {
		return
	}
	app.Event.Emit(EventWidgetsUpdated, WidgetsUpdatedEvent{Snapshot: json.RawMessage(payload)})
}

func EmitError(app *application.App, code, message, details string) {
	if app == nil {
		return
	}
	event := ErrorEvent{
		Code:    code,
		Message: message,
		Details: details,
	}
	app.Event.Emit(EventError, event)
}
