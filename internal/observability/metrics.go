package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
	"github.com/yungbote/phoneshop-backend/internal/platform/envutil"
)

type Metrics struct {
	registry *prometheus.Registry

	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec
	insufficientStock  *prometheus.CounterVec
	stockReserved      *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", true)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics set once. It returns nil when metrics are
// disabled. An empty namespace falls back to METRICS_NAMESPACE.
func Init(log *logger.Logger, namespace string) *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}
		ns := strings.TrimSpace(namespace)
		if ns == "" {
			ns = envutil.String("METRICS_NAMESPACE", "phoneshop")
		}
		instance = NewMetrics(ns, prometheus.NewRegistry())
		if log != nil {
			log.Info("metrics initialized", "namespace", ns)
		}
	})
	return instance
}

// NewMetrics registers the aggregate collectors on reg.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	namespace = strings.TrimSpace(namespace)
	m := &Metrics{
		registry: reg,
		aggregateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_operation_seconds",
			Help:      "Latency of aggregate write operations by outcome.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation", "status"}),
		aggregateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_conflicts_total",
			Help:      "Aggregate writes rejected by a conflict.",
		}, []string{"operation"}),
		aggregateRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_retryable_total",
			Help:      "Aggregate writes that failed with a retryable error.",
		}, []string{"operation"}),
		insufficientStock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_insufficient_stock_total",
			Help:      "Order saves rejected for lack of stock.",
		}, []string{"operation"}),
		stockReserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reservation_units_total",
			Help:      "Units reserved or released by committed order saves.",
		}, []string{"direction"}),
	}
	reg.MustRegister(m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries, m.insufficientStock, m.stockReserved)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateLatency.WithLabelValues(name, status).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(name).Inc()
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(name).Inc()
}

func (m *Metrics) IncInsufficientStock(name string) {
	if m == nil {
		return
	}
	m.insufficientStock.WithLabelValues(name).Inc()
}

// AddStockReservation records a committed reservation delta; negative values count as releases.
func (m *Metrics) AddStockReservation(delta int64) {
	if m == nil || delta == 0 {
		return
	}
	if delta > 0 {
		m.stockReserved.WithLabelValues("reserve").Add(float64(delta))
		return
	}
	m.stockReserved.WithLabelValues("release").Add(float64(-delta))
}
