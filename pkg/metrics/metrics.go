package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	TransactionsSubmitted *prometheus.CounterVec
	TransactionsDecided   *prometheus.CounterVec
	TransactionsCompleted *prometheus.CounterVec
	RequestsCreated       prometheus.Counter
	RequestsDecided       *prometheus.CounterVec
	StockMovements        *prometheus.CounterVec
	LowStockAlerts        prometheus.Counter
	ActivityPublishErrors prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),

		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Current number of in-flight HTTP requests",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),

		TransactionsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_transactions_submitted_total",
			Help: "Stock transactions submitted, by type",
		}, []string{"type"}),

		TransactionsDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_transactions_decided_total",
			Help: "Stock transaction decisions, by type and outcome",
		}, []string{"type", "decision"}),

		TransactionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_transactions_completed_total",
			Help: "Stock transactions fully completed, by type",
		}, []string{"type"}),

		RequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "material_requests_created_total",
			Help: "Material requests created",
		}),

		RequestsDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "material_requests_decided_total",
			Help: "Material request decisions, by outcome",
		}, []string{"decision"}),

		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "Ledger stock movements applied, by transaction type and direction",
		}, []string{"type", "direction"}),

		LowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "Low-stock threshold crossings detected",
		}),

		ActivityPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "activity_publish_errors_total",
			Help: "Failed activity event publishes",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.TransactionsSubmitted,
		m.TransactionsDecided,
		m.TransactionsCompleted,
		m.RequestsCreated,
		m.RequestsDecided,
		m.StockMovements,
		m.LowStockAlerts,
		m.ActivityPublishErrors,
	)

	return m
}

// Handler returns the /metrics endpoint handler
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware instruments HTTP requests
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()

		c.Next()

		m.HTTPRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
