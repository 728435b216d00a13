package http

import (
	"flowpilot/core/domain"
	in "flowpilot/core/port/in"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WorkflowHandler exposes the email analysis pipeline.
type WorkflowHandler struct {
	workflow in.WorkflowService
}

func NewWorkflowHandler(workflow in.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

func (h *WorkflowHandler) Register(router fiber.Router) {
	router.Post("/analyze", h.Analyze)
	router.Post("/analyze/batch", h.AnalyzeBatch)
	router.Post("/priority/score", h.Score)
	router.Post("/task/approve", h.Approve)
}

// Analyze extracts a task, deadline and priority from one email.
// @Summary Analyze email
// @Tags Workflow
// @Accept json
// @Produce json
// @Param request body in.AnalyzeRequest true "Email text"
// @Success 200 {object} domain.Analysis
// @Router /analyze [post]
func (h *WorkflowHandler) Analyze(c *fiber.Ctx) error {
	var req in.AnalyzeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	// Blank input and failures come back as an Analysis, never as an error.
	return c.JSON(h.workflow.Analyze(c.UserContext(), &req))
}

// AnalyzeBatch analyzes several emails concurrently, preserving order.
// @Summary Analyze a batch of emails
// @Tags Workflow
// @Accept json
// @Produce json
// @Param request body in.BatchAnalyzeRequest true "Emails"
// @Success 200 {object} in.BatchAnalyzeResponse
// @Router /analyze/batch [post]
func (h *WorkflowHandler) AnalyzeBatch(c *fiber.Ctx) error {
	var req in.BatchAnalyzeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.workflow.AnalyzeBatch(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *WorkflowHandler) Score(c *fiber.Ctx) error {
	var req in.ScoreRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	score, err := h.workflow.Score(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		*domain.ScoreBreakdown
	}{true, score})
}

func (h *WorkflowHandler) Approve(c *fiber.Ctx) error {
	var req in.ApproveRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := h.workflow.Approve(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{"task": task, "message": "Task approved"})
}
