package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// Analysis outcomes recorded by RecordAnalysis.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_financials"
	OutcomeUnparseable = "unparseable"
)

// Metrics collects Prometheus metrics for the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	analysesTotal   *prometheus.CounterVec
	ruleFlagsTotal  *prometheus.CounterVec
}

// NewMetrics initialises the registry and the service metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "underwriter_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "underwriter_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "underwriter_analyses_total",
		Help: "Statement analyses by outcome.",
	}, []string{"outcome"})
	flags := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "underwriter_rule_flags_total",
		Help: "Flags emitted per rule.",
	}, []string{"rule", "flag"})
	registry.MustRegister(requests, duration, analyses, flags)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		analysesTotal:   analyses,
		ruleFlagsTotal:  flags,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and duration for every route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordAnalysis counts one analysis and, on success, the flag of every rule.
func (m *Metrics) RecordAnalysis(outcome string, report *models.Report) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	if report == nil {
		return
	}
	for _, res := range report.Results {
		m.ruleFlagsTotal.WithLabelValues(res.Name, res.Flag.String()).Inc()
	}
}
