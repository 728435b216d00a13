package http

import (
	"flowpilot/core/domain"
	in "flowpilot/core/port/in"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CalendarHandler serves the simulated calendar and conflict checks.
type CalendarHandler struct {
	calendar in.CalendarService
}

func NewCalendarHandler(calendar in.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

func (h *CalendarHandler) Register(router fiber.Router) {
	router.Get("/calendar/events", h.ListEvents)
	router.Post("/calendar/event", h.CreateEvent)
	router.Get("/conflict/detect", h.DetectConflicts)
}

func (h *CalendarHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.calendar.ListEvents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

// CreateEvent books the event and reports any overlap it found.
func (h *CalendarHandler) CreateEvent(c *fiber.Ctx) error {
	var req in.CreateEventRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.calendar.CreateEvent(c.UserContext(), &req)
	if err != nil {
		return err
	}

	fields := fiber.Map{"event": resp.Event}
	if resp.ConflictWarning != nil {
		fields["conflict_warning"] = resp.ConflictWarning
	}
	return response.Fields(c, fields)
}

// DetectConflicts checks ?date=YYYY-MM-DD&time=HH:MM AM against booked events.
func (h *CalendarHandler) DetectConflicts(c *fiber.Ctx) error {
	date, slot := c.Query("date"), c.Query("time")
	if date == "" {
		return apperr.MissingField("date")
	}
	report, err := h.calendar.DetectConflicts(c.UserContext(), date, slot)
	if err != nil {
		return err
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		*domain.ConflictReport
	}{true, report})
}
