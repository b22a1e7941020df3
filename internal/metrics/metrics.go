// Package metrics exposes the storefront's prometheus collectors. Every
// method is safe on a nil *Metrics so callers never need to check whether
// metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dorada"

// Metrics groups the collectors registered for one process.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestCounter    *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
	ordersCreated     prometheus.Counter
	statusTransitions *prometheus.CounterVec
	stockFailures     *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	catalogCache      *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ordersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Orders placed at checkout",
			},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_status_transitions_total",
				Help:      "Order status changes by outcome",
			},
			[]string{"from", "to", "result"},
		),
		stockFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stock_rejections_total",
				Help:      "Operations refused for lack of stock",
			},
			[]string{"operation"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Outbound notifications by channel and outcome",
			},
			[]string{"channel", "event", "result"},
		),
		catalogCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_requests_total",
				Help:      "Product listing cache lookups",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.ordersCreated,
		m.statusTransitions,
		m.stockFailures,
		m.notifications,
		m.catalogCache,
	)
	return m
}

// NewDefault registers on a fresh registry that also carries the process
// and Go runtime collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())
	return New(reg)
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		m.requestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// StatusTransition records one set-status attempt; result is ok or an error class.
func (m *Metrics) StatusTransition(from, to, result string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to, result).Inc()
}

func (m *Metrics) StockRejected(operation string) {
	if m == nil {
		return
	}
	m.stockFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) Notification(channel, event, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, event, result).Inc()
}

func (m *Metrics) CatalogCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogCache.WithLabelValues(result).Inc()
}
