package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Order metrics
	OrderOperationsCounter *prometheus.CounterVec

	// Shift close metrics
	SettlementsConfirmed prometheus.Counter
	SettlementConflicts  prometheus.Counter
	OrdersSettled        prometheus.Counter
	PendingPurged        prometheus.Counter
	SettledAmount        prometheus.Counter
	ReportsGenerated     *prometheus.CounterVec
}

// New registers the collectors on reg, every name starting with prefix
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OrderOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_operations_total",
				Help: "Total number of order operations",
			},
			[]string{"operation", "result"},
		),
		SettlementsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_settlements_confirmed_total",
			Help: "Total number of confirmed shift closes",
		}),
		SettlementConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_settlement_conflicts_total",
			Help: "Total number of shift close attempts retried after a serialization conflict",
		}),
		OrdersSettled: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_orders_settled_total",
			Help: "Total number of orders claimed by shift closes",
		}),
		PendingPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_pending_orders_purged_total",
			Help: "Total number of pending orders deleted by shift closes",
		}),
		SettledAmount: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_settled_amount_total",
			Help: "Sum of the order totals settled by shift closes",
		}),
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_reports_generated_total",
				Help: "Total number of shift reports generated",
			},
			[]string{"format"},
		),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordOrderOperation increments the counter for order operations
func (m *Metrics) RecordOrderOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OrderOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordSettlement records a confirmed shift close
func (m *Metrics) RecordSettlement(orders int, purged int64, amount decimal.Decimal) {
	m.SettlementsConfirmed.Inc()
	m.OrdersSettled.Add(float64(orders))
	m.PendingPurged.Add(float64(purged))
	m.SettledAmount.Add(amount.InexactFloat64())
}

// RecordSettlementConflict records a retried shift close attempt
func (m *Metrics) RecordSettlementConflict() {
	m.SettlementConflicts.Inc()
}

// RecordReport records a generated shift report
func (m *Metrics) RecordReport(format string) {
	m.ReportsGenerated.WithLabelValues(format).Inc()
}
