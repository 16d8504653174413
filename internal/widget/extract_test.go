package widget

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librahub/internal/domain"
)

var testNow = time.Date(2026, 5, 10, 12, 30, 0, 0, time.UTC)

func TestExtractLibraLeadsThreeLeadExample(t *testing.T) {
	raw := `{"leads":[
		{"company":"Acme","followupPriority":"urgent","nextFollowupDate":"2026-05-10","followupAction":"Call","nextFollowupTime":"09:00"},
		{"company":"Globex","followupPriority":"normal","nextFollowupDate":"2026-05-15"},
		{"company":"Initech"}
	]}`

	summary, err := ExtractLibraLeads(raw, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UrgentCount)
	assert.Equal(t, 1, summary.ThisWeekCount)
	assert.Equal(t, 3, summary.TotalLeads)
	assert.Equal(t, domain.WidgetStatusActive, summary.Status)
	assert.Equal(t, []domain.UrgentItem{{Company: "Acme", Action: "Call", Time: "09:00", Priority: "urgent"}}, summary.Urgent)
	assert.Equal(t, "2026-05-10T12:30:00.000Z", summary.LastSync)
}

func TestExtractLibraLeadsUrgentWindow(t *testing.T) {
	raw := `{"leads":[
		{"followupPriority":"urgent","nextFollowupDate":"2026-05-01"},
		{"followupPriority":"urgent","nextFollowupDate":"2026-05-10T23:00:00Z"},
		{"followupPriority":"urgent","nextFollowupDate":"2026-05-11"},
		{"followupPriority":"urgent","nextFollowupDate":"2026-04-30"},
		{"followupPriority":"urgent","nextFollowupDate":"not a date"},
		{"followupPriority":"normal","nextFollowupDate":"2026-05-10"},
		{"followupPriority":"normal","nextFollowupDate":"2026-05-17"},
		{"followupPriority":"normal","nextFollowupDate":"2026-05-18"},
		{"nextFollowupDate":"2026-05-12"}
	]}`

	summary, err := ExtractLibraLeads(raw, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.UrgentCount)
	assert.Equal(t, 2, summary.ThisWeekCount)
	require.Len(t, summary.Urgent, 3)
	for _, item := range summary.Urgent {
		assert.Equal(t, "Unknown", item.Company)
		assert.Equal(t, "Follow-up", item.Action)
		assert.Equal(t, "", item.Time)
		assert.Equal(t, "urgent", item.Priority)
	}
}

func TestExtractLibraLeadsCapsUrgentItems(t *testing.T) {
	raw := `{"leads":[
		{"company":"A","followupPriority":"urgent","nextFollowupDate":"2026-05-01"},
		{"company":"B","followupPriority":"urgent","nextFollowupDate":"2026-05-02"},
		{"company":"C","followupPriority":"urgent","nextFollowupDate":"2026-05-03"},
		{"company":"D","followupPriority":"urgent","nextFollowupDate":"2026-05-04"}
	]}`

	summary, err := ExtractLibraLeads(raw, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.UrgentCount)
	require.Len(t, summary.Urgent, 3)
	assert.Equal(t, "C", summary.Urgent[2].Company)
}

func TestExtractLibraLeadsPipeline(t *testing.T) {
	raw := `{"leads":[
		{"status":"response","dealSize":"1500"},
		{"status":"meeting","dealSize":2500.9},
		{"status":"meeting","dealSize":"300 EUR"},
		{"status":"meeting","dealSize":"EUR 300"},
		{"status":"response"},
		{"status":"closed","dealSize":"9999"}
	]}`

	summary, err := ExtractLibraLeads(raw, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(4300), summary.TotalPipeline)
	assert.Equal(t, 6, summary.TotalLeads)
}

func TestExtractLibraLeadsFallbacks(t *testing.T) {
	summary, err := ExtractLibraLeads("", false, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, summary.Status)
	assert.Empty(t, summary.Urgent)
	assert.NotNil(t, summary.Urgent)

	summary, err = ExtractLibraLeads("{broken", true, testNow)
	require.Error(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, summary.Status)
	assert.Zero(t, summary.TotalLeads)

	summary, err = ExtractLibraLeads(`{"leads":"nope"}`, true, testNow)
	require.Error(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, summary.Status)

	summary, err = ExtractLibraLeads(`{}`, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusActive, summary.Status)
	assert.Zero(t, summary.TotalLeads)
}

func TestExtractEmailDrafter(t *testing.T) {
	summary, err := ExtractEmailDrafter("", false, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.EmailDrafterSummary{
		SavedTimeToday: "0 hours",
		LastDraft:      "No recent drafts",
		AIStatus:       "ready",
		LastSync:       "2026-05-10T12:30:00.000Z",
		Status:         domain.WidgetStatusIdle,
	}, summary)

	summary, err = ExtractEmailDrafter(`{"pendingDrafts":2,"savedTimeToday":"1.5 hours","lastDraft":"Re: offer","aiStatus":"busy"}`, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(2), summary.PendingDrafts)
	assert.Equal(t, "1.5 hours", summary.SavedTimeToday)
	assert.Equal(t, "Re: offer", summary.LastDraft)
	assert.Equal(t, "busy", summary.AIStatus)
	assert.Equal(t, domain.WidgetStatusActive, summary.Status)

	summary, err = ExtractEmailDrafter(`not json`, true, testNow)
	require.Error(t, err)
	assert.Equal(t, domain.WidgetStatusError, summary.Status)
	assert.Equal(t, "Error loading data", summary.LastDraft)
	assert.Equal(t, "error", summary.AIStatus)
}

func TestExtractInvoiceGenerator(t *testing.T) {
	summary, err := ExtractInvoiceGenerator("", false, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusCurrent, summary.Status)
	assert.Equal(t, "No upcoming invoices", summary.NextInvoice)

	summary, err = ExtractInvoiceGenerator(`{"monthlyRevenue":1200.5,"pendingInvoices":3,"overdueInvoices":1,"nextInvoice":"INV-7"}`, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1200.5, summary.MonthlyRevenue)
	assert.Equal(t, float64(3), summary.PendingInvoices)
	assert.Equal(t, float64(1), summary.OverdueInvoices)
	assert.Equal(t, "INV-7", summary.NextInvoice)
	assert.Equal(t, domain.WidgetStatusPending, summary.Status)

	summary, err = ExtractInvoiceGenerator(`null`, true, testNow)
	require.Error(t, err)
	assert.Equal(t, domain.WidgetStatusError, summary.Status)
	assert.Equal(t, "Error loading data", summary.NextInvoice)
}

func TestExtractCustomTool(t *testing.T) {
	tool := domain.Tool{ID: "tool_1_abcde", Name: "Budget"}

	tests := []struct {
		name    string
		raw     string
		present bool
		want    domain.CustomToolSummary
		wantErr bool
	}{
		{
			name: "absent",
			want: domain.CustomToolSummary{LastActivity: "No activity", Status: "unknown", Summary: "No data available"},
		},
		{
			name:    "recognized keys",
			raw:     `{"count":4,"total":99.5,"pending":1,"active":true,"lastActivity":"today","status":"ok"}`,
			present: true,
			want:    domain.CustomToolSummary{DataPoints: 6, LastActivity: "today", Status: "ok", Summary: "4 items, €99.5 total, 1 pending, true active"},
		},
		{
			name:    "only other keys",
			raw:     `{"a":1,"b":2}`,
			present: true,
			want:    domain.CustomToolSummary{DataPoints: 2, LastActivity: "No activity", Status: "unknown", Summary: "2 data points"},
		},
		{
			name:    "malformed",
			raw:     `{`,
			present: true,
			want:    domain.CustomToolSummary{LastActivity: "Error loading data", Status: "error", Summary: "Unable to load tool data"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCustomTool(tool, tt.raw, tt.present, testNow)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			want := tt.want
			want.ToolID = tool.ID
			want.ToolName = tool.Name
			want.LastSync = "2026-05-10T12:30:00.000Z"
			assert.Equal(t, want, got)
		})
	}
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, int64(42), leadingInt(" 42abc"))
	assert.Equal(t, int64(-7), leadingInt("-7"))
	assert.Equal(t, int64(0), leadingInt("abc"))
	assert.Equal(t, int64(0), leadingInt(nil))
	assert.Equal(t, int64(12), leadingInt(12.99))
	assert.Equal(t, int64(0), leadingInt(true))
}

func TestLeadingIntSaturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), leadingInt(1e300))
	assert.Equal(t, int64(math.MinInt64), leadingInt(-1e300))
	assert.Equal(t, int64(math.MaxInt64), leadingInt(math.Inf(1)))
	assert.Equal(t, int64(0), leadingInt(math.NaN()))
	assert.Equal(t, int64(math.MaxInt64), leadingInt("99999999999999999999 EUR"))
	assert.Equal(t, int64(math.MinInt64), leadingInt("-99999999999999999999"))

	assert.Equal(t, int64(math.MaxInt64), addSaturating(math.MaxInt64, 1))
	assert.Equal(t, int64(math.MinInt64), addSaturating(math.MinInt64, -1))
	assert.Equal(t, int64(5), addSaturating(2, 3))
}

func TestExtractLibraLeadsPipelineSaturates(t *testing.T) {
	raw := `{"leads":[{"status":"meeting","dealSize":"99999999999999999999"},{"status":"response","dealSize":5000}]}`
	got, err := ExtractLibraLeads(raw, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got.TotalPipeline)
}
