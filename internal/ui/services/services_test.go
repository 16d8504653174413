package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librahub/internal/app"
	"librahub/internal/domain"
	"librahub/internal/infra/config"
	"librahub/internal/theme"
	"librahub/internal/ui"
)

func newTestRegistry(t *testing.T) (*ServiceRegistry, *app.App) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		StorePath: filepath.Join(dir, "hub.db"),
		Widget:    config.WidgetConfig{IntervalSeconds: 3600},
		Log:       config.LogConfig{Level: "info"},
	}
	coreApp, cleanup, err := app.InitializeApp(cfg, app.Bindings{}, app.LoggingConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, coreApp.Load(context.Background()))
	return NewServiceRegistry(coreApp, zap.NewNop()), coreApp
}

func requireUIError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var uiErr *ui.Error
	require.ErrorAs(t, err, &uiErr)
	assert.Equal(t, code, uiErr.Code)
}

func TestServicesWithoutAppReportInternalError(t *testing.T) {
	reg := NewServiceRegistry(nil, nil)

	_, err := reg.Tool.ListTools()
	requireUIError(t, err, ui.ErrCodeInternal)
	_, err = reg.State.GetItem("k")
	requireUIError(t, err, ui.ErrCodeInternal)
	_, err = reg.Widget.GetSnapshot(context.Background())
	requireUIError(t, err, ui.ErrCodeInternal)

	assert.Equal(t, "pong", reg.System.Ping(context.Background()))
	assert.Len(t, reg.Services(), 5)
}

func TestToolServiceLifecycle(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	catalog, err := reg.Tool.ListTools()
	require.NoError(t, err)
	require.Len(t, catalog.Tools, 1)
	assert.Equal(t, domain.LibraLeadsToolID, catalog.Tools[0].ID)
	assert.False(t, catalog.Tools[0].Removable)

	entry, err := reg.Tool.AddTool(ctx, "timer.html", domain.HTMLMediaType, "<title>Focus Timer</title><p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "Focus Timer", entry.Name)
	assert.True(t, entry.Removable)

	stats, err := reg.Tool.GetStats()
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStats{Total: 2, Default: 1, Custom: 1}, stats)

	view, err := reg.Tool.SelectTool(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Focus Timer", view.Title)
	assert.False(t, view.Builtin)

	closed, err := reg.Tool.Back()
	require.NoError(t, err)
	assert.True(t, closed)

	require.NoError(t, reg.Tool.ReplaceTool(entry.ID))
	replaced, err := reg.Tool.SubmitReplacement(ctx, "timer2.html", domain.HTMLMediaType, "<title>Timer Two</title>")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, replaced.ID)
	assert.Equal(t, "Timer Two", replaced.Name)

	removed, err := reg.Tool.RemoveTool(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	stats, err = reg.Tool.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Custom)
}

func TestToolServiceMapsDomainErrors(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Tool.AddTool(ctx, "notes.txt", "text/plain", "hello")
	requireUIError(t, err, ui.ErrCodeUnsupportedFile)

	_, err = reg.Tool.RemoveTool(ctx, domain.LibraLeadsToolID)
	requireUIError(t, err, ui.ErrCodeBuiltinTool)

	_, err = reg.Tool.SelectTool("missing")
	requireUIError(t, err, ui.ErrCodeToolNotFound)

	_, err = reg.Tool.SubmitReplacement(ctx, "a.html", domain.HTMLMediaType, "<title>A</title>")
	requireUIError(t, err, ui.ErrCodeNoPendingReplace)
}

func TestStateServiceRoundTripAndReservedKeys(t *testing.T) {
	reg, _ := newTestRegistry(t)

	value, err := reg.State.GetItem(domain.EmailDrafterKey)
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, reg.State.SetItem(domain.EmailDrafterKey, `{"drafts":[]}`))
	value, err = reg.State.GetItem(domain.EmailDrafterKey)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, `{"drafts":[]}`, *value)

	require.NoError(t, reg.State.RemoveItem(domain.EmailDrafterKey))
	value, err = reg.State.GetItem(domain.EmailDrafterKey)
	require.NoError(t, err)
	assert.Nil(t, value)

	requireUIError(t, reg.State.SetItem(domain.RegistryKey, "[]"), ui.ErrCodeInvalidRequest)
	requireUIError(t, reg.State.RemoveItem(domain.ThemeKey), ui.ErrCodeInvalidRequest)
	requireUIError(t, reg.State.SetItem(" ", "x"), ui.ErrCodeInvalidRequest)
}

func TestThemeServiceToggle(t *testing.T) {
	reg, _ := newTestRegistry(t)

	current, err := reg.Theme.GetTheme()
	require.NoError(t, err)
	assert.Equal(t, theme.Light, current)

	next, err := reg.Theme.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, next)

	current, err = reg.Theme.GetTheme()
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, current)

	requireUIError(t, reg.Theme.SetTheme("sepia"), ui.ErrCodeInvalidRequest)
	require.NoError(t, reg.Theme.SetTheme(theme.Light))
}

func TestWidgetServiceSnapshotReadsToolState(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.State.SetItem(domain.InvoiceGeneratorKey, `{"monthlyRevenue":1200,"pendingInvoices":2}`))

	snapshot, err := reg.Widget.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, snapshot.LibraLeads.Status)
	assert.NotEmpty(t, snapshot.Timestamp)
	assert.Equal(t, float64(1200), snapshot.InvoiceGenerator.MonthlyRevenue)
	assert.Equal(t, domain.WidgetStatusPending, snapshot.InvoiceGenerator.Status)

	published, err := reg.Widget.PublishNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(2), published.InvoiceGenerator.PendingInvoices)
}

func TestLeadsPageStateReachesWidget(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	today := time.Now().UTC()
	payload := fmt.Sprintf(`{"leads":[`+
		`{"id":"lead_1","company":"Acme","contact":"Ada","status":"meeting","dealSize":"12000",`+
		`"followupAction":"Send proposal","nextFollowupDate":%q,"nextFollowupTime":"09:30",`+
		`"followupPriority":"urgent","createdAt":"2026-05-01T08:00:00.000Z"},`+
		`{"id":"lead_2","company":"Globex","contact":"","status":"new","dealSize":"",`+
		`"followupAction":"","nextFollowupDate":%q,"nextFollowupTime":"",`+
		`"followupPriority":"normal","createdAt":"2026-05-02T08:00:00.000Z"}`+
		`],"lastUpdated":"2026-05-02T08:00:00.000Z"}`,
		today.Format(time.DateOnly), today.AddDate(0, 0, 3).Format(time.DateOnly))
	require.NoError(t, reg.State.SetItem(domain.LibraLeadsKey, payload))

	snapshot, err := reg.Widget.GetSnapshot(ctx)
	require.NoError(t, err)
	leads := snapshot.LibraLeads
	assert.Equal(t, domain.WidgetStatusActive, leads.Status)
	assert.Equal(t, 2, leads.TotalLeads)
	assert.Equal(t, 1, leads.UrgentCount)
	assert.Equal(t, 1, leads.ThisWeekCount)
	assert.Equal(t, int64(12000), leads.TotalPipeline)
	require.Len(t, leads.Urgent, 1)
	assert.Equal(t, "Acme", leads.Urgent[0].Company)
}
