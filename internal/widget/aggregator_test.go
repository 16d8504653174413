package widget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librahub/internal/domain"
	"librahub/internal/infra/telemetry"
)

type mapReader struct {
	values map[string]string
	failOn string
}

func (m mapReader) Get(key string) (string, bool, error) {
	if key == m.failOn {
		return "", false, errors.New("read failed")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

type staticTools []domain.Tool

func (s staticTools) Tools() []domain.Tool { return s }

type captureSink struct {
	payloads [][]byte
	err      error
}

func (c *captureSink) UpdateWidgets(_ context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return c.err
}

func fixedNow() time.Time { return testNow }

func TestAggregateCoversKnownAndUserTools(t *testing.T) {
	reader := mapReader{values: map[string]string{
		domain.LibraLeadsKey:                 `{"leads":[{"followupPriority":"urgent","nextFollowupDate":"2026-05-09"}]}`,
		domain.EmailDrafterKey:               `{"pendingDrafts":1}`,
		domain.ToolStateKey("tool_1_abcde"): `{"count":2}`,
	}}
	tools := staticTools{
		{ID: "libraleads", Name: "LibraLeads", IsDefault: true},
		{ID: "tool_1_abcde", Name: "Budget"},
		{ID: "tool_2_fghij", Name: "Notes"},
	}
	agg := NewAggregator(reader, tools, Options{Now: fixedNow})

	snapshot, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.LibraLeads.UrgentCount)
	assert.Equal(t, domain.WidgetStatusActive, snapshot.EmailDrafter.Status)
	assert.Equal(t, domain.WidgetStatusCurrent, snapshot.InvoiceGenerator.Status)
	require.Len(t, snapshot.Custom, 2)
	assert.Equal(t, "2 items", snapshot.Custom["tool_1_abcde"].Summary)
	assert.Equal(t, "No data available", snapshot.Custom["tool_2_fghij"].Summary)
	assert.Equal(t, "2026-05-10T12:30:00.000Z", snapshot.Timestamp)
}

func TestAggregateFallsBackPerTool(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(registry)
	reader := mapReader{
		values: map[string]string{
			domain.LibraLeadsKey:   `{broken`,
			domain.EmailDrafterKey: `{broken`,
		},
		failOn: domain.InvoiceGeneratorKey,
	}
	agg := NewAggregator(reader, nil, Options{Now: fixedNow, Metrics: metrics})

	snapshot, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, snapshot.LibraLeads.Status)
	assert.Equal(t, domain.WidgetStatusError, snapshot.EmailDrafter.Status)
	assert.Equal(t, domain.WidgetStatusCurrent, snapshot.InvoiceGenerator.Status)
	assert.Nil(t, snapshot.Custom)

	count, err := testutil.GatherAndCount(registry, "librahub_widget_extract_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAggregateCanceled(t *testing.T) {
	agg := NewAggregator(mapReader{}, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Aggregate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPublishSendsPayload(t *testing.T) {
	sink := &captureSink{}
	agg := NewAggregator(mapReader{}, nil, Options{Now: fixedNow, Sink: sink})

	snapshot, err := agg.Publish(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.payloads, 1)

	var decoded domain.WidgetSnapshot
	require.NoError(t, json.Unmarshal(sink.payloads[0], &decoded))
	assert.Equal(t, snapshot, decoded)

	var shape map[string]any
	require.NoError(t, json.Unmarshal(sink.payloads[0], &shape))
	for _, key := range []string{"libraleads", "emaildrafter", "invoicegenerator", "timestamp"} {
		assert.Contains(t, shape, key)
	}
}

func TestPublishWithoutSinkOnlyComputes(t *testing.T) {
	agg := NewAggregator(mapReader{}, nil, Options{Now: fixedNow})

	snapshot, err := agg.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetStatusEmpty, snapshot.LibraLeads.Status)
}

func TestPublishSinkFailureIsReported(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(registry)
	sink := &captureSink{err: errors.New("bridge offline")}
	agg := NewAggregator(mapReader{}, nil, Options{Now: fixedNow, Sink: sink, Metrics: metrics})

	snapshot, err := agg.Publish(context.Background())
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeUnavailable, code)
	assert.NotEmpty(t, snapshot.Timestamp)
}

// leadsPagePayload is what the built-in LibraLeads page persists.
const leadsPagePayload = `{"leads":[` +
	`{"id":"lead_1","company":"Acme","contact":"Ada","status":"meeting","dealSize":"12000",` +
	`"followupAction":"Send proposal","nextFollowupDate":"2026-05-10","nextFollowupTime":"09:30",` +
	`"followupPriority":"urgent","createdAt":"2026-05-01T08:00:00.000Z"},` +
	`{"id":"lead_2","company":"Globex","contact":"","status":"response","dealSize":"3000",` +
	`"followupAction":"","nextFollowupDate":"2026-05-13","nextFollowupTime":"",` +
	`"followupPriority":"normal","createdAt":"2026-05-02T08:00:00.000Z"}` +
	`],"lastUpdated":"2026-05-02T08:00:00.000Z"}`

func TestAggregateReadsLeadsPageState(t *testing.T) {
	reader := mapReader{values: map[string]string{domain.LibraLeadsKey: leadsPagePayload}}
	agg := NewAggregator(reader, staticTools{{ID: domain.LibraLeadsToolID, Name: "LibraLeads", IsDefault: true}}, Options{Now: fixedNow})

	snapshot, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	leads := snapshot.LibraLeads
	assert.Equal(t, domain.WidgetStatusActive, leads.Status)
	assert.Equal(t, 2, leads.TotalLeads)
	assert.Equal(t, 1, leads.UrgentCount)
	assert.Equal(t, 1, leads.ThisWeekCount)
	assert.Equal(t, int64(15000), leads.TotalPipeline)
	assert.Equal(t, []domain.UrgentItem{{Company: "Acme", Action: "Send proposal", Time: "09:30", Priority: "urgent"}}, leads.Urgent)
	assert.Empty(t, snapshot.Custom)
}
