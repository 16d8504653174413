package domain

import "time"

// Store keys shared by the registry, the widget aggregator and the hosted tools.
const (
	RegistryKey         = "libraHubTools"
	ThemeKey            = "libraHubTheme"
	LibraLeadsKey       = "libra-leads"
	EmailDrafterKey     = "email-drafter-data"
	InvoiceGeneratorKey = "invoice-generator-data"
)

// LibraLeadsToolID is the registry id of the built-in CRM tool. Its state lives under LibraLeadsKey.
const LibraLeadsToolID = "libraleads"

const (
	DefaultWidgetInterval        = 15 * time.Minute
	DefaultWidgetIntervalSeconds = int(DefaultWidgetInterval / time.Second)
	DefaultStatusDismiss         = 3 * time.Second
	DefaultLogLevel              = "info"
	DefaultCustomToolIcon        = "🔧"
	DefaultCustomToolDescription = "Custom Tool"
	HTMLMediaType                = "text/html"
)

// ToolStateKey returns the namespaced store key a user tool writes its state under.
func ToolStateKey(toolID string) string {
	return "tool-" + toolID + "-data"
}
