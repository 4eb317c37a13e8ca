package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)

	// OrdersCreated counts orders persisted as pending, by payment mode.
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted with a pending payment",
		},
		[]string{"mode"},
	)

	// PaymentVerifications counts verification attempts by outcome.
	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Payment verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Notifications counts SMS notification attempts by audience and result.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "SMS notification attempts",
		},
		[]string{"audience", "result"},
	)
)

// Middleware records request count and latency per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := float64(time.Since(start).Milliseconds())

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), path).Observe(duration)
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
