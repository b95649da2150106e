// Package metrics exposes Prometheus counters for sign-in and request authentication.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the view of metrics used by handlers and middleware.
type Recorder interface {
	RecordSignIn(outcome string)
	RecordAuthRejection(reason string)
}

type Collector struct {
	signIns        *prometheus.CounterVec
	authRejections *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connections_sign_in_total",
			Help: "Google sign-in attempts by outcome.",
		}, []string{"outcome"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connections_auth_rejections_total",
			Help: "Requests rejected by the authentication middleware by reason.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connections_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "connections_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(c.signIns, c.authRejections, c.httpRequests, c.httpLatency)
	return c
}

func (c *Collector) RecordSignIn(outcome string) {
	c.signIns.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// Middleware records status and latency per matched route.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := ctx.Route().Path
		c.httpRequests.WithLabelValues(route, ctx.Method(), strconv.Itoa(status)).Inc()
		c.httpLatency.WithLabelValues(route, ctx.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format for gatherer.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordSignIn(string)        {}
func (Nop) RecordAuthRejection(string) {}
