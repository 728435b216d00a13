package http

import (
	in "flowpilot/core/port/in"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SlackHandler serves the simulated Slack channel and bot commands.
type SlackHandler struct {
	slack in.SlackService
}

func NewSlackHandler(slack in.SlackService) *SlackHandler {
	return &SlackHandler{slack: slack}
}

func (h *SlackHandler) Register(router fiber.Router) {
	router.Get("/slack/messages", h.ListMessages)
	router.Post("/slack/message", h.SendMessage)
	router.Post("/slack/command", h.Command)
}

func (h *SlackHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.slack.ListMessages(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": msgs, "count": len(msgs)})
}

func (h *SlackHandler) SendMessage(c *fiber.Ctx) error {
	var req in.SlackMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	msg, err := h.slack.SendMessage(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{"data": msg})
}

// Command runs an @FlowPilot command and returns the bot reply.
func (h *SlackHandler) Command(c *fiber.Ctx) error {
	var req in.SlackMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.slack.HandleCommand(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
