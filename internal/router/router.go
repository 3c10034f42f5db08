package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/uclone1/yt-competitor-monitor/internal/handler"
	"github.com/uclone1/yt-competitor-monitor/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health *handler.HealthHandler
	Report *handler.ReportHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health checks (no rate limiting)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus metrics
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	reportLimiter := middleware.NewReportRateLimiter()
	api.Get("/report", h.Report.GetLatest, reportLimiter.Handler())
	api.Get("/channels/:handle", h.Report.GetChannel, reportLimiter.Handler())

	runLimiter := middleware.NewRunTriggerRateLimiter()
	api.Post("/run", h.Report.TriggerRun, runLimiter.Handler())
}
