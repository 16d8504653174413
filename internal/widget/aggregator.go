// Package widget summarizes per-tool state into the home-screen widget snapshot
// and publishes it on a fixed interval.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/telemetry"
)

// Reader is the read side of the local store.
type Reader interface {
	Get(key string) (string, bool, error)
}

// ToolLister supplies the installed tools whose state gets a generic summary.
type ToolLister interface {
	Tools() []domain.Tool
}

// Sink delivers a serialized snapshot to the host platform.
type Sink interface {
	UpdateWidgets(ctx context.Context, payload []byte) error
}

type Options struct {
	Logger  *zap.Logger
	Sink    Sink
	Metrics domain.Metrics
	Now     func() time.Time
}

type Aggregator struct {
	store   Reader
	tools   ToolLister
	sink    Sink
	metrics domain.Metrics
	now     func() time.Time
	logger  *zap.Logger
}

func NewAggregator(store Reader, tools ToolLister, opts Options) *Aggregator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		store:   store,
		tools:   tools,
		sink:    opts.Sink,
		metrics: metrics,
		now:     now,
		logger:  logger.Named("widgets"),
	}
}

// Aggregate builds a snapshot. Per-tool failures fall back to that tool's
// empty or error summary and never abort the pass.
func (a *Aggregator) Aggregate(ctx context.Context) (domain.WidgetSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.WidgetSnapshot{}, err
	}
	started := time.Now()
	now := a.now()

	raw, ok := a.read(domain.LibraLeadsKey)
	leads, err := ExtractLibraLeads(raw, ok, now)
	a.extractFailed("libraleads", err)

	raw, ok = a.read(domain.EmailDrafterKey)
	email, err := ExtractEmailDrafter(raw, ok, now)
	a.extractFailed("emaildrafter", err)

	raw, ok = a.read(domain.InvoiceGeneratorKey)
	invoices, err := ExtractInvoiceGenerator(raw, ok, now)
	a.extractFailed("invoicegenerator", err)

	snapshot := domain.WidgetSnapshot{
		LibraLeads:       leads,
		EmailDrafter:     email,
		InvoiceGenerator: invoices,
		Timestamp:        isoTimestamp(now),
	}

	if a.tools != nil {
		for _, tool := range a.tools.Tools() {
			if tool.IsDefault {
				continue
			}
			if err := ctx.Err(); err != nil {
				return domain.WidgetSnapshot{}, err
			}
			raw, ok := a.read(domain.ToolStateKey(tool.ID))
			summary, err := ExtractCustomTool(tool, raw, ok, now)
			a.extractFailed(tool.ID, err)
			if snapshot.Custom == nil {
				snapshot.Custom = make(map[string]domain.CustomToolSummary)
			}
			snapshot.Custom[tool.ID] = summary
		}
	}

	a.metrics.ObserveWidgetAggregate(time.Since(started))
	return snapshot, nil
}

// read treats a store failure as absent state so the extractor falls back.
func (a *Aggregator) read(key string) (string, bool) {
	raw, ok, err := a.store.Get(key)
	if err != nil {
		a.logger.Warn("failed to read tool state", telemetry.StoreKeyField(key), zap.Error(err))
		return "", false
	}
	return raw, ok
}

func (a *Aggregator) extractFailed(tool string, err error) {
	if err == nil {
		return
	}
	a.logger.Warn("widget extraction fell back", zap.String("tool", tool), zap.Error(err))
	a.metrics.ObserveWidgetExtractError(tool)
}

// Publish aggregates and hands the payload to the sink. Sink failures are
// logged and returned alongside the snapshot; they never discard it.
func (a *Aggregator) Publish(ctx context.Context) (domain.WidgetSnapshot, error) {
	snapshot, err := a.Aggregate(ctx)
	if err != nil {
		a.metrics.ObserveWidgetPublish(domain.OperationError)
		return snapshot, err
	}
	if a.sink == nil {
		a.metrics.ObserveWidgetPublish(domain.OperationSkipped)
		return snapshot, nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		a.metrics.ObserveWidgetPublish(domain.OperationError)
		return snapshot, fmt.Errorf("encode widget snapshot: %w", err)
	}
	if err := a.sink.UpdateWidgets(ctx, payload); err != nil {
		a.logger.Warn("widget update failed", zap.Error(err))
		a.metrics.ObserveWidgetPublish(domain.OperationError)
		return snapshot, domain.Wrap(domain.CodeUnavailable, "publish widgets", err)
	}
	a.logger.Debug("widgets updated", telemetry.EventField(telemetry.EventWidgetsPublish), zap.Int("bytes", len(payload)))
	a.metrics.ObserveWidgetPublish(domain.OperationSuccess)
	return snapshot, nil
}
