package http

import (
	in "flowpilot/core/port/in"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler exposes the agent activity log and live agent states.
type AuditHandler struct {
	audit  in.AuditService
	agents in.AgentService
}

func NewAuditHandler(audit in.AuditService, agents in.AgentService) *AuditHandler {
	return &AuditHandler{audit: audit, agents: agents}
}

func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/audit", h.List)
	router.Post("/audit/clear", h.Clear)
	router.Get("/agent/status", h.AgentStatus)
}

// List returns the newest entries first. ?limit=N caps the result.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	entries, err := h.audit.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"logs": entries, "count": len(entries)})
}

func (h *AuditHandler) Clear(c *fiber.Ctx) error {
	if err := h.audit.Clear(c.UserContext()); err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{"message": "Audit log cleared"})
}

func (h *AuditHandler) AgentStatus(c *fiber.Ctx) error {
	return c.JSON(h.agents.Board())
}
