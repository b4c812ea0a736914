// Package metrics exposes Prometheus counters for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "moringa"

// Coupon apply outcomes
const (
	CouponApplied  = "applied"
	CouponRejected = "rejected"
	CouponError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	CouponApply   *prometheus.CounterVec
	OrdersPlaced  *prometheus.CounterVec
	OrderRevenue  prometheus.Counter
	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CouponApply: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_apply_total",
			Help:      "Coupon apply attempts by outcome",
		}, []string{"result"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed by payment method",
		}, []string{"payment_method"}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_rupees_total",
			Help:      "Sum of order grand totals in rupees",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.CouponApply,
		m.OrdersPlaced,
		m.OrderRevenue,
		m.HTTPRequests,
		m.HTTPDurations,
		prometheus.NewGoCollector(),
	)
	return m
}

// The observe methods are safe on a nil *Metrics so callers can run without metrics.

func (m *Metrics) ObserveCouponApply(result string) {
	if m == nil {
		return
	}
	m.CouponApply.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOrderPlaced(paymentMethod string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(paymentMethod).Inc()
	m.OrderRevenue.Add(total.InexactFloat64())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware counts requests per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDurations.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
