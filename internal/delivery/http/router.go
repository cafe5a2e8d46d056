package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/report", handler.GetReport)
		api.Get("/report.xlsx", handler.ExportReport)
		api.Get("/summary", handler.GetSummary)
		api.Get("/hotspots", handler.GetHotspots)
		api.Get("/peak-hours", handler.GetPeakHours)
		api.Get("/signals", handler.GetSignals)
		api.Get("/recommendations", handler.GetRecommendations)
		api.Get("/plan", handler.GetPlan)

		api.Post("/refresh", handler.Refresh)
	}
}

// ErrorHandler renders errors as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
