package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordAnalysis(OutcomeInvalid, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	metrics.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `underwriter_analyses_total{outcome="invalid_financials"} 1`) {
		t.Fatalf("expected body to contain underwriter_analyses_total, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusTeapot)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/test", "418")); got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}

	metricsRR := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(metricsRR, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(metricsRR.Body.String(), `underwriter_http_request_duration_seconds_bucket{route="/test"`) {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsRR.Body.String())
	}
}

func TestMetricsMiddlewareRecordsFiberError(t *testing.T) {
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/missing", "404")); got != 1 {
		t.Fatalf("expected 404 to be recorded, got %v", got)
	}
}

func TestRecordAnalysisCountsFlags(t *testing.T) {
	metrics := NewMetrics()
	report := &models.Report{Results: []models.RuleResult{
		{Number: 1, Name: "TOTAL_REVENUE_5CR_FLAG", Flag: models.FlagGreen},
		{Number: 3, Name: "ISCR_FLAG", Flag: models.FlagRed},
	}}

	metrics.RecordAnalysis(OutcomeOK, report)
	metrics.RecordAnalysis(OutcomeOK, report)

	if got := testutil.ToFloat64(metrics.analysesTotal.WithLabelValues(OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 analyses, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ruleFlagsTotal.WithLabelValues("ISCR_FLAG", "RED")); got != 2 {
		t.Fatalf("expected 2 RED ISCR flags, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordAnalysis(OutcomeOK, nil)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
