package http

import (
	in "flowpilot/core/port/in"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type SafetyHandler struct {
	safety in.SafetyService
}

func NewSafetyHandler(safety in.SafetyService) *SafetyHandler {
	return &SafetyHandler{safety: safety}
}

func (h *SafetyHandler) Register(router fiber.Router) {
	router.Get("/safety/check", h.CheckTask)
	router.Post("/safety/scan", h.Scan)
}

func (h *SafetyHandler) CheckTask(c *fiber.Ctx) error {
	id, err := queryID(c, "task_id")
	if err != nil {
		return err
	}
	result, err := h.safety.CheckTask(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{
		"task_id":  result.TaskID,
		"is_safe":  result.IsSafe,
		"warnings": result.Warnings,
	})
}

type scanRequest struct {
	Content string `json:"content"`
}

func (h *SafetyHandler) Scan(c *fiber.Ctx) error {
	var req scanRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Content == "" {
		return apperr.MissingField("content")
	}
	return response.OK(c, h.safety.ScanContent(c.UserContext(), req.Content))
}
