package middleware

import (
	"fmt"
	"time"

	"flowpilot/core/domain"
	in "flowpilot/core/port/in"

	"github.com/gofiber/fiber/v2"
)

// AuditedActions maps "METHOD route" to the Orchestrator action recorded
// for it. Routes whose services already write richer entries are absent.
var AuditedActions = map[string]string{
	"POST /task/approve":              "Approval requested",
	"POST /task/:id/complete":         "Completion requested",
	"POST /metrics/reset":             "Reset metrics",
	"POST /audit/clear":               "Cleared audit log",
	"POST /metrics/record-meeting":    "Recorded meeting",
	"POST /metrics/record-slack":      "Recorded Slack message",
	"POST /metrics/record-completion": "Recorded completion",
}

// Audit writes an Orchestrator entry for every audited route after it runs.
func Audit(audit in.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		action, ok := AuditedActions[c.Method()+" "+c.Route().Path]
		if !ok {
			return err
		}

		status := responseStatus(c, err)
		details := fmt.Sprintf("%s %s -> %d in %dms", c.Method(), c.Path(), status, time.Since(start).Milliseconds())
		if id := c.Params("id"); id != "" {
			details += " (task #" + id + ")"
		}

		audit.Log(c.UserContext(), domain.AgentOrchestrator, action, details)
		return err
	}
}
