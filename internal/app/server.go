package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/insightdelivered/statement-underwriter/internal/api"
	"github.com/insightdelivered/statement-underwriter/internal/observability"
	"github.com/insightdelivered/statement-underwriter/internal/rules"
	"github.com/insightdelivered/statement-underwriter/internal/view"
)

// NewServer builds the fiber application with the middleware stack and all
// routes registered.
func NewServer(cfg *Config, logger *slog.Logger, version string) (*fiber.App, error) {
	templates, err := view.NewEngine()
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:               "statement-underwriter " + version,
		BodyLimit:             cfg.MaxUploadBytes,
		ReadTimeout:           cfg.AppReadTimeout,
		WriteTimeout:          cfg.AppWriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(requestLogger(logger))
	if metrics != nil {
		app.Use(metrics.Middleware())
	}

	handler := api.NewHandler(logger, rules.NewEngine(logger), templates, metrics, version)
	handler.RegisterRoutes(app)
	return app, nil
}

// Run serves app on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, app *fiber.App, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			slog.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
		)
		return err
	}
}

// errorHandler renders unhandled errors as {"error": "..."}.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
