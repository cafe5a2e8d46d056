package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/logger"
	"github.com/smartcity/hotspots/internal/report"
	"github.com/smartcity/hotspots/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	analysisSvc *service.AnalysisService
	exporter    *report.ExcelExporter
	logger      logger.Logger
}

// NewHandler creates a new handler
func NewHandler(analysisSvc *service.AnalysisService, exporter *report.ExcelExporter, log logger.Logger) *Handler {
	return &Handler{
		analysisSvc: analysisSvc,
		exporter:    exporter,
		logger:      log.WithField("component", "http_handler"),
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.analysisSvc.Health(c.Context()); err != nil {
		h.logger.Warnf("Health check failed: %v", err)
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"service": "traffic-hotspots",
		"version": "1.0.0",
	})
}

// GetReport returns the full analysis snapshot
func (h *Handler) GetReport(c *fiber.Ctx) error {
	r, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    r,
	})
}

// GetSummary returns per-location aggregates
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.Summaries })
}

// GetHotspots returns the congested cluster and the clustering outcome
func (h *Handler) GetHotspots(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.Classification })
}

// GetPeakHours returns the peak (hour, day) pairs
func (h *Handler) GetPeakHours(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.PeakHours })
}

// GetSignals returns the signal efficiency table
func (h *Handler) GetSignals(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.SignalEfficiency })
}

// GetRecommendations returns the advisories in insertion order
func (h *Handler) GetRecommendations(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.Recommendations })
}

// GetPlan returns the traffic management plan
func (h *Handler) GetPlan(c *fiber.Ctx) error {
	return h.respond(c, func(r domain.Report) interface{} { return r.Plan })
}

// ExportReport streams the snapshot as an .xlsx workbook
func (h *Handler) ExportReport(c *fiber.Ctx) error {
	r, err := h.snapshot(c)
	if err != nil {
		return err
	}

	body, err := h.exporter.Export(r)
	if err != nil {
		h.logger.Errorf("Export failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to export report")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="traffic-report-%s.xlsx"`, r.ID))
	return c.Send(body)
}

// Refresh recomputes the snapshot
func (h *Handler) Refresh(c *fiber.Ctx) error {
	r, err := h.analysisSvc.Refresh(c.Context())
	if err != nil {
		return h.analysisError(err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"id":           r.ID,
		"generated_at": r.GeneratedAt,
	})
}

func (h *Handler) respond(c *fiber.Ctx, pick func(domain.Report) interface{}) error {
	r, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"report_id":    r.ID,
		"generated_at": r.GeneratedAt,
		"data":         pick(r),
	})
}

func (h *Handler) snapshot(c *fiber.Ctx) (domain.Report, error) {
	r, err := h.analysisSvc.Snapshot(c.Context())
	if err != nil {
		return domain.Report{}, h.analysisError(err)
	}
	return r, nil
}

// analysisError maps input problems to 422 and everything else to 500
func (h *Handler) analysisError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No observations available for analysis")
	case errors.Is(err, domain.ErrInsufficientData):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Errorf("Analysis failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to run analysis")
	}
}
