package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Checkout metrics
	CheckoutAttemptsTotal *prometheus.CounterVec
	CheckoutGuardFailures *prometheus.CounterVec

	// Payment gateway metrics
	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
	WebhookEventsTotal     *prometheus.CounterVec

	// Cart metrics
	CartOperationsTotal *prometheus.CounterVec

	// Subscription metrics
	SubscriptionEventsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration   *prometheus.HistogramVec
	DBConnectionsOpen prometheus.Gauge

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sellforge"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Checkout metrics
		CheckoutAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "attempts_total",
				Help:      "Total number of checkout attempts",
			},
			[]string{"outcome"}, // redirecting, failed, gateway_error
		),
		CheckoutGuardFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "guard_failures_total",
				Help:      "Total number of checkout guard failures",
			},
			[]string{"guard"}, // cart_empty, phone_required, multiple_items, error
		),

		// Payment gateway metrics
		GatewayRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of payment gateway requests",
			},
			[]string{"provider", "operation", "status"},
		),
		GatewayRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Payment gateway request duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "operation"},
		),
		WebhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "webhook_events_total",
				Help:      "Total number of webhook events received",
			},
			[]string{"provider", "event", "status"},
		),

		// Cart metrics
		CartOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cart",
				Name:      "operations_total",
				Help:      "Total number of cart operations",
			},
			[]string{"operation"}, // add, update_quantity, remove, clear
		),

		// Subscription metrics
		SubscriptionEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "billing",
				Name:      "subscription_events_total",
				Help:      "Total number of subscription lifecycle events",
			},
			[]string{"event"}, // created, switched, canceled, activated, trial_started
		),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections_open",
				Help:      "Number of open database connections",
			},
		),

		// Cache metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// --- Convenience methods ---
//
// All recorders are nil-safe so callers can run with metrics disabled.

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCheckoutAttempt records a checkout attempt outcome.
func (m *Metrics) RecordCheckoutAttempt(outcome string) {
	if m == nil {
		return
	}
	m.CheckoutAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordGuardFailure records a checkout guard failure.
func (m *Metrics) RecordGuardFailure(guard string) {
	if m == nil {
		return
	}
	m.CheckoutGuardFailures.WithLabelValues(guard).Inc()
}

// RecordGatewayRequest records a payment gateway request.
func (m *Metrics) RecordGatewayRequest(provider, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GatewayRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.GatewayRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordWebhookEvent records a webhook event.
func (m *Metrics) RecordWebhookEvent(provider, event, status string) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(provider, event, status).Inc()
}

// RecordCartOperation records a cart operation.
func (m *Metrics) RecordCartOperation(operation string) {
	if m == nil {
		return
	}
	m.CartOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordSubscriptionEvent records a subscription lifecycle event.
func (m *Metrics) RecordSubscriptionEvent(event string) {
	if m == nil {
		return
	}
	m.SubscriptionEventsTotal.WithLabelValues(event).Inc()
}

// RecordDBQuery records a database query.
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
