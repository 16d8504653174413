package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"librahub/internal/domain"
)

type PrometheusMetrics struct {
	registryTools         *prometheus.GaugeVec
	registryOperations    *prometheus.CounterVec
	widgetPublishes       *prometheus.CounterVec
	widgetExtractErrors   *prometheus.CounterVec
	widgetAggregateLength prometheus.Histogram
	lastPublish           prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		registryTools: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "librahub_registry_tools",
				Help: "Number of installed tools by kind",
			},
			[]string{"kind"},
		),
		registryOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "librahub_registry_operations_total",
				Help: "Total number of registry operations by outcome",
			},
			[]string{"op", "status"},
		),
		widgetPublishes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "librahub_widget_publishes_total",
				Help: "Total number of widget snapshot publications by outcome",
			},
			[]string{"status"},
		),
		widgetExtractErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "librahub_widget_extract_errors_total",
				Help: "Total number of per-tool widget extractions that fell back",
			},
			[]string{"tool"},
		),
		widgetAggregateLength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "librahub_widget_aggregate_duration_seconds",
				Help:    "Duration of a widget aggregation pass in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		lastPublish: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "librahub_widget_last_publish_timestamp_seconds",
				Help: "Unix time of the last successful widget publication",
			},
		),
	}
}

func (p *PrometheusMetrics) SetRegistryTools(stats domain.ToolStats) {
	p.registryTools.WithLabelValues("default").Set(float64(stats.Default))
	p.registryTools.WithLabelValues("custom").Set(float64(stats.Custom))
}

func (p *PrometheusMetrics) ObserveRegistryOperation(op string, status domain.OperationStatus) {
	p.registryOperations.WithLabelValues(op, string(status)).Inc()
}

func (p *PrometheusMetrics) ObserveWidgetPublish(status domain.OperationStatus) {
	p.widgetPublishes.WithLabelValues(string(status)).Inc()
	if status == domain.OperationSuccess {
		p.lastPublish.SetToCurrentTime()
	}
}

func (p *PrometheusMetrics) ObserveWidgetExtractError(tool string) {
	p.widgetExtractErrors.WithLabelValues(tool).Inc()
}

func (p *PrometheusMetrics) ObserveWidgetAggregate(duration time.Duration) {
	p.widgetAggregateLength.Observe(duration.Seconds())
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
