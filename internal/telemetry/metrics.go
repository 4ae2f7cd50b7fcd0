package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CarrierErrors   *prometheus.CounterVec
	PipelineSteps   *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
}

// NewMetrics creates metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipbridge_requests_total",
				Help: "Total number of requests by operation, carrier, and status",
			},
			[]string{"operation", "carrier", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipbridge_request_duration_seconds",
				Help:    "Request duration in seconds by operation and carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "carrier"},
		),
		CarrierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipbridge_carrier_errors_total",
				Help: "Total carrier errors by carrier and error type",
			},
			[]string{"carrier", "error_type"},
		),
		PipelineSteps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipbridge_pipeline_steps_total",
				Help: "Pipeline steps executed by carrier, step kind, and status",
			},
			[]string{"carrier", "step", "status"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipbridge_pipeline_step_duration_seconds",
				Help:    "Pipeline step duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, carrier, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, carrier, status).Inc()
	m.RequestDuration.WithLabelValues(operation, carrier).Observe(duration)
}

// RecordError records a carrier error metric.
func (m *Metrics) RecordError(carrier, errorType string) {
	m.CarrierErrors.WithLabelValues(carrier, errorType).Inc()
}

// RecordStep records one pipeline step outcome. kind must come from a fixed
// set, never from request data such as a tracking number.
func (m *Metrics) RecordStep(carrier, kind string, status shipper.StepStatus, elapsed time.Duration) {
	m.PipelineSteps.WithLabelValues(carrier, kind, string(status)).Inc()
	m.StepDuration.WithLabelValues(carrier).Observe(elapsed.Seconds())
}

// StepObserver returns a pipeline observer recording steps for carrier.
func (m *Metrics) StepObserver(carrier string) shipper.StepObserver {
	return func(kind string, status shipper.StepStatus, elapsed time.Duration) {
		m.RecordStep(carrier, kind, status, elapsed)
	}
}
