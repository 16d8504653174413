package domain

// Widget status values shared by the summaries.
const (
	WidgetStatusActive  = "active"
	WidgetStatusEmpty   = "empty"
	WidgetStatusIdle    = "idle"
	WidgetStatusError   = "error"
	WidgetStatusPending = "pending"
	WidgetStatusCurrent = "current"
	WidgetStatusUnknown = "unknown"
)

// WidgetSnapshot is the payload published to home-screen widgets on every cycle.
type WidgetSnapshot struct {
	LibraLeads       LeadsSummary                 `json:"libraleads"`
	EmailDrafter     EmailDrafterSummary          `json:"emaildrafter"`
	InvoiceGenerator InvoiceSummary               `json:"invoicegenerator"`
	Custom           map[string]CustomToolSummary `json:"custom,omitempty"`
	Timestamp        string                       `json:"timestamp"`
}

// UrgentItem is one compact follow-up line in the leads widget.
type UrgentItem struct {
	Company  string `json:"company"`
	Action   string `json:"action"`
	Time     string `json:"time"`
	Priority string `json:"priority"`
}

type LeadsSummary struct {
	Urgent        []UrgentItem `json:"urgent"`
	UrgentCount   int          `json:"urgentCount"`
	ThisWeekCount int          `json:"thisWeekCount"`
	TotalPipeline int64        `json:"totalPipeline"`
	TotalLeads    int          `json:"totalLeads"`
	LastSync      string       `json:"lastSync"`
	Status        string       `json:"status"`
}

type EmailDrafterSummary struct {
	PendingDrafts  float64 `json:"pendingDrafts"`
	SavedTimeToday string  `json:"savedTimeToday"`
	LastDraft      string  `json:"lastDraft"`
	AIStatus       string  `json:"aiStatus"`
	LastSync       string  `json:"lastSync"`
	Status         string  `json:"status"`
}

type InvoiceSummary struct {
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
	PendingInvoices float64 `json:"pendingInvoices"`
	OverdueInvoices float64 `json:"overdueInvoices"`
	NextInvoice     string  `json:"nextInvoice"`
	LastSync        string  `json:"lastSync"`
	Status          string  `json:"status"`
}

// CustomToolSummary is the best-effort summary of a user tool without bespoke extraction.
type CustomToolSummary struct {
	ToolID       string `json:"toolId"`
	ToolName     string `json:"toolName"`
	DataPoints   int    `json:"dataPoints"`
	LastActivity string `json:"lastActivity"`
	Status       string `json:"status"`
	Summary      string `json:"summary"`
	LastSync     string `json:"lastSync"`
}
