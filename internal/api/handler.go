package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/insightdelivered/statement-underwriter/internal/models"
	"github.com/insightdelivered/statement-underwriter/internal/observability"
	"github.com/insightdelivered/statement-underwriter/internal/parser"
	"github.com/insightdelivered/statement-underwriter/internal/rules"
	"github.com/insightdelivered/statement-underwriter/internal/view"
	"github.com/insightdelivered/statement-underwriter/internal/writer"
)

// errNoStatement is returned when a request carries neither an uploaded file
// nor a JSON body.
var errNoStatement = errors.New("no statement uploaded: use form field 'file' or a JSON request body")

// Handler holds the HTTP handlers for the API and the upload pages.
type Handler struct {
	logger    *slog.Logger
	engine    *rules.Engine
	templates *view.Engine
	metrics   *observability.Metrics
	validator *validator.Validate
	version   string
}

// NewHandler constructs a Handler. templates and metrics may be nil, which
// disables the HTML pages and the /metrics endpoint respectively.
func NewHandler(logger *slog.Logger, engine *rules.Engine, templates *view.Engine, metrics *observability.Metrics, version string) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if engine == nil {
		engine = rules.NewEngine(logger)
	}
	return &Handler{
		logger:    logger,
		engine:    engine,
		templates: templates,
		metrics:   metrics,
		validator: validator.New(),
		version:   version,
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/analyze", h.handleAnalyze)

	if h.templates != nil {
		app.Get("/", h.showUpload)
		app.Post("/", h.handleUpload)
	}
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.version,
	})
}

type analyzeQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=json text csv"`
}

func (h *Handler) handleAnalyze(c *fiber.Ctx) error {
	var q analyzeQuery
	if err := c.QueryParser(&q); err != nil {
		return h.respondError(c, writer.FormatJSON, fiber.StatusBadRequest, err.Error())
	}
	if err := h.validator.Struct(q); err != nil {
		return h.respondError(c, writer.FormatJSON, fiber.StatusBadRequest,
			fmt.Sprintf("Unknown format %q. Use json, text, or csv.", q.Format))
	}
	format := writer.FormatJSON
	if q.Format != "" {
		format = writer.Format(q.Format)
	}

	doc, source, err := h.readStatement(c)
	if err != nil {
		h.metrics.RecordAnalysis(observability.OutcomeUnparseable, nil)
		return h.respondError(c, format, fiber.StatusBadRequest, err.Error())
	}

	report, id, err := h.analyze(doc, source)
	if err != nil {
		return h.respondError(c, format, statusFor(err), err.Error())
	}

	c.Set("X-Report-ID", id)
	switch format {
	case writer.FormatJSON:
		resp := writer.NewJSONReport(report)
		resp.ID = id
		return c.JSON(resp)
	case writer.FormatCSV:
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	default:
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	w, err := writer.New(format, writer.Options{IncludeHeader: true})
	if err != nil {
		return err
	}
	return w.Write(c, report)
}

func (h *Handler) showUpload(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "index.html", view.TemplateData{Title: "Statement Underwriter"})
}

func (h *Handler) handleUpload(c *fiber.Ctx) error {
	doc, source, err := h.readUpload(c)
	if err != nil {
		h.metrics.RecordAnalysis(observability.OutcomeUnparseable, nil)
		return h.render(c, fiber.StatusBadRequest, "index.html", view.TemplateData{Title: "Statement Underwriter", Error: err.Error()})
	}

	report, id, err := h.analyze(doc, source)
	if err != nil {
		return h.render(c, statusFor(err), "index.html", view.TemplateData{Title: "Statement Underwriter", Error: err.Error()})
	}
	return h.render(c, fiber.StatusOK, "results.html", view.TemplateData{
		Title: "Results: " + source,
		Data:  view.ResultsPage{ID: id, Report: report},
	})
}

// analyze runs the engine and records the outcome.
func (h *Handler) analyze(doc *models.Document, source string) (*models.Report, string, error) {
	report, err := h.engine.Analyze(doc)
	switch {
	case errors.Is(err, models.ErrUnparseable):
		h.metrics.RecordAnalysis(observability.OutcomeUnparseable, nil)
		h.logger.Info("statement rejected", slog.String("source", source), slog.Any("error", err))
		return nil, "", err
	case err != nil:
		h.metrics.RecordAnalysis(observability.OutcomeInvalid, nil)
		h.logger.Info("statement rejected", slog.String("source", source), slog.Any("error", err))
		return nil, "", err
	}

	report.Source = source
	id := uuid.NewString()
	h.metrics.RecordAnalysis(observability.OutcomeOK, report)
	h.logger.Info("statement analysed",
		slog.String("id", id),
		slog.String("source", source),
		slog.Int("period", report.Period.Index),
	)
	return report, id, nil
}

// readStatement accepts a multipart upload in field "file" or a raw JSON body.
func (h *Handler) readStatement(c *fiber.Ctx) (*models.Document, string, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.readUpload(c)
	}
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, "", errNoStatement
	}
	doc, err := (&parser.JSONParser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	return doc, "request body", nil
}

func (h *Handler) readUpload(c *fiber.Ctx) (*models.Document, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", errNoStatement
	}

	format, err := parser.Detect(fh.Filename)
	if err != nil {
		return nil, "", err
	}
	p, err := parser.New(format)
	if err != nil {
		return nil, "", err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	defer file.Close()

	doc, err := p.Parse(file)
	if err != nil {
		return nil, "", err
	}
	return doc, fh.Filename, nil
}

func (h *Handler) respondError(c *fiber.Ctx, format writer.Format, status int, msg string) error {
	c.Status(status)
	if format == writer.FormatJSON {
		return c.JSON(models.ErrorReport{Error: msg})
	}
	w, err := writer.New(format, writer.Options{})
	if err != nil {
		return err
	}
	if format == writer.FormatCSV {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	return w.WriteError(c, models.ErrorReport{Error: msg})
}

func (h *Handler) render(c *fiber.Ctx, status int, name string, data view.TemplateData) error {
	data.Version = h.version
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if err := h.templates.Render(c, name, data); err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
		return fiber.ErrInternalServerError
	}
	return nil
}

// statusFor maps analysis errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rules.ErrInvalidFinancials):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnparseable):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
