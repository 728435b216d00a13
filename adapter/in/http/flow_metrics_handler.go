package http

import (
	"flowpilot/core/domain"
	in "flowpilot/core/port/in"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MetricsHandler serves the productivity dashboard and its counters.
type MetricsHandler struct {
	metrics in.MetricsService
}

func NewMetricsHandler(metrics in.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) Register(router fiber.Router) {
	m := router.Group("/metrics")
	m.Get("/dashboard", h.Dashboard)
	m.Post("/reset", h.Reset)

	// Side effects the dashboard cannot observe itself.
	m.Post("/record-meeting", h.record(domain.MetricMeetingsScheduled))
	m.Post("/record-slack", h.record(domain.MetricSlackMessages))
	m.Post("/record-completion", h.record(domain.MetricTasksCompleted))
}

func (h *MetricsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.metrics.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		*domain.MetricsDashboard
	}{true, dash})
}

func (h *MetricsHandler) Reset(c *fiber.Ctx) error {
	if err := h.metrics.Reset(c.UserContext()); err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{"message": "Metrics reset"})
}

func (h *MetricsHandler) record(counter domain.MetricCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.metrics.Record(c.UserContext(), counter); err != nil {
			return err
		}
		return response.Fields(c, fiber.Map{"counter": counter})
	}
}
