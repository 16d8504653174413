package domain

import "time"

// OperationStatus labels the outcome of a registry or widget operation.
type OperationStatus string

const (
	OperationSuccess OperationStatus = "success"
	OperationError   OperationStatus = "error"
	OperationSkipped OperationStatus = "skipped"
)

// Metrics records hub observability signals.
type Metrics interface {
	SetRegistryTools(stats ToolStats)
	ObserveRegistryOperation(op string, status OperationStatus)
	ObserveWidgetPublish(status OperationStatus)
	ObserveWidgetExtractError(tool string)
	ObserveWidgetAggregate(duration time.Duration)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) SetRegistryTools(ToolStats)                        {}
func (NoopMetrics) ObserveRegistryOperation(string, OperationStatus) {}
func (NoopMetrics) ObserveWidgetPublish(OperationStatus)             {}
func (NoopMetrics) ObserveWidgetExtractError(string)                 {}
func (NoopMetrics) ObserveWidgetAggregate(time.Duration)             {}

var _ Metrics = NoopMetrics{}
