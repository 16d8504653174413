package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldToolID     = "tool_id"
	FieldToolName   = "tool_name"
	FieldStoreKey   = "store_key"
	FieldDurationMs = "duration_ms"
	FieldLogSource  = "log_source"
	FieldPath       = "path"
)

const (
	EventToolAdded      = "tool_added"
	EventToolRemoved    = "tool_removed"
	EventToolReplaced   = "tool_replaced"
	EventToolSelected   = "tool_selected"
	EventRegistrySeeded = "registry_seeded"
	EventWidgetsPublish = "widgets_publish"
)

const (
	LogSourceCore = "core"
	LogSourceUI   = "ui"
	LogSourceCLI  = "cli"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolIDField(toolID string) zap.Field {
	return zap.String(FieldToolID, toolID)
}

func ToolNameField(name string) zap.Field {
	return zap.String(FieldToolName, name)
}

func StoreKeyField(key string) zap.Field {
	return zap.String(FieldStoreKey, key)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}
