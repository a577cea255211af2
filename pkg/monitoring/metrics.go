package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "service"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	// Database metrics
	mongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"operation", "collection", "service"},
	)

	mongoOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_operations_total",
			Help: "Total number of MongoDB operations",
		},
		[]string{"operation", "collection", "status", "service"},
	)

	// Authentication metrics
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "status", "service"},
	)

	// Case review metrics
	caseDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "case_decisions_total",
			Help: "Total number of case approval decisions",
		},
		[]string{"decision", "status", "service"},
	)

	// Prescription metrics
	medicationAppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medication_appends_total",
			Help: "Total number of medication items appended to prescriptions",
		},
		[]string{"status", "service"},
	)

	// System metrics
	systemErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "system_errors_total",
			Help: "Total number of system errors",
		},
		[]string{"error_type", "service", "component"},
	)

	registerOnce sync.Once
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	serviceName string
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(serviceName string) *MetricsCollector {
	// Register metrics once; collectors are package-level so repeated
	// construction in tests must not double-register.
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			mongoOperationDuration,
			mongoOperationsTotal,
			authAttemptsTotal,
			caseDecisionsTotal,
			medicationAppendsTotal,
			systemErrors,
		)
	})

	return &MetricsCollector{
		serviceName: serviceName,
	}
}

// RecordHTTPRequest records HTTP request metrics
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, m.serviceName).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, m.serviceName).Observe(duration.Seconds())
}

// RecordMongoOperation records MongoDB operation metrics
func (m *MetricsCollector) RecordMongoOperation(operation, collection, status string, duration time.Duration) {
	mongoOperationsTotal.WithLabelValues(operation, collection, status, m.serviceName).Inc()
	mongoOperationDuration.WithLabelValues(operation, collection, m.serviceName).Observe(duration.Seconds())
}

// RecordAuthAttempt records authentication attempt metrics
func (m *MetricsCollector) RecordAuthAttempt(method, status string) {
	authAttemptsTotal.WithLabelValues(method, status, m.serviceName).Inc()
}

// RecordCaseDecision records case approval decision metrics
func (m *MetricsCollector) RecordCaseDecision(decision, status string) {
	caseDecisionsTotal.WithLabelValues(decision, status, m.serviceName).Inc()
}

// RecordMedicationAppend records medication append metrics
func (m *MetricsCollector) RecordMedicationAppend(status string) {
	medicationAppendsTotal.WithLabelValues(status, m.serviceName).Inc()
}

// RecordSystemError records system error metrics
func (m *MetricsCollector) RecordSystemError(errorType, component string) {
	systemErrors.WithLabelValues(errorType, m.serviceName, component).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
