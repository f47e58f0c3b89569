// Package telemetry holds the Prometheus collectors for HTTP traffic and shop events.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics collectors
type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	signups        prometheus.Counter
	logins         *prometheus.CounterVec
	passwordResets *prometheus.CounterVec
	cartAdds       prometheus.Counter
	ordersCreated  prometheus.Counter
	orderValue     prometheus.Histogram
	paymentFailed  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "shop"
	}

	m := &Metrics{
		gatherer: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "signups_total",
			Help:      "Accounts created",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "logins_total",
			Help:      "Sign in attempts by result",
		}, []string{"result"}),
		passwordResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "password_resets_total",
			Help:      "Password reset requests and completions",
		}, []string{"stage"}),
		cartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "cart_adds_total",
			Help:      "Add to cart actions",
		}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "orders_created_total",
			Help:      "Orders placed after a successful charge",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "order_value_minor_units",
			Help:      "Order totals in minor currency units",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		}),
		paymentFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "business",
			Name:      "payment_failed_total",
			Help:      "Charges refused or failed at the gateway",
		}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.signups,
		m.logins,
		m.passwordResets,
		m.cartAdds,
		m.ordersCreated,
		m.orderValue,
		m.paymentFailed,
	)

	return m
}

// Middleware records request count, latency and in-flight requests. The route
// template is used as the path label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// The event recorders below are no-ops on a nil receiver so tests can leave metrics out.

// Signup counts a new account
func (m *Metrics) Signup() {
	if m != nil {
		m.signups.Inc()
	}
}

// Login counts a sign in attempt; result is "success" or "failure"
func (m *Metrics) Login(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// PasswordReset counts a reset step; stage is "requested" or "completed"
func (m *Metrics) PasswordReset(stage string) {
	if m != nil {
		m.passwordResets.WithLabelValues(stage).Inc()
	}
}

// CartAdd counts an add to cart
func (m *Metrics) CartAdd() {
	if m != nil {
		m.cartAdds.Inc()
	}
}

// OrderCreated counts an order and observes its total
func (m *Metrics) OrderCreated(total int64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderValue.Observe(float64(total))
}

// PaymentFailed counts a refused or failed charge
func (m *Metrics) PaymentFailed() {
	if m != nil {
		m.paymentFailed.Inc()
	}
}
