package http

import (
	"bufio"
	"time"

	"flowpilot/adapter/out/realtime"
	"flowpilot/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// =============================================================================
// Activity Stream Handler - Server-Sent Events
// =============================================================================

// EventsHandler streams workflow activity over Server-Sent Events.
type EventsHandler struct {
	hub       *realtime.ActivityHub
	heartbeat time.Duration
	log       zerolog.Logger
}

func NewEventsHandler(hub *realtime.ActivityHub, heartbeat time.Duration, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		heartbeat: heartbeat,
		log:       log.With().Str("handler", "events").Logger(),
	}
}

func (h *EventsHandler) Register(app fiber.Router) {
	app.Get("/events/stream", h.Stream)
	app.Get("/events/recent", h.Recent)
	app.Get("/events/status", h.Status)
}

// Stream keeps the connection open and writes one SSE frame per event.
// With ?replay=true the remembered events are sent first.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	var (
		client  *realtime.Client
		backlog []*domain.ActivityEvent
	)
	if c.QueryBool("replay", false) {
		client, backlog = h.hub.Attach(h.heartbeat)
	} else {
		client = h.hub.Connect(h.heartbeat)
	}

	h.log.Info().Str("client_id", client.ID).Msg("SSE client connected")

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(client.Heartbeat)
		defer ticker.Stop()
		defer func() {
			client.Close()
			h.log.Info().Str("client_id", client.ID).Msg("SSE client disconnected")
		}()

		w.WriteString("event: connected\n")
		w.WriteString("data: {\"status\":\"connected\",\"client_id\":\"" + client.ID + "\"}\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		var lastSeq int64
		for _, event := range backlog {
			if !h.writeEvent(w, event) {
				return
			}
			lastSeq = event.Seq
		}

		for {
			select {
			case event, ok := <-client.Events:
				if !ok {
					return
				}
				// Already sent as part of the backlog.
				if event.Seq <= lastSeq {
					continue
				}
				if !h.writeEvent(w, event) {
					return
				}
			case <-ticker.C:
				w.WriteString(": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					h.log.Debug().Err(err).Msg("client disconnected during heartbeat")
					return
				}
			}
		}
	})

	return nil
}

func (h *EventsHandler) writeEvent(w *bufio.Writer, event *domain.ActivityEvent) bool {
	data, err := realtime.SerializeEvent(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to serialize event")
		return true
	}

	w.WriteString("event: ")
	w.WriteString(string(event.Type))
	w.WriteString("\n")
	w.WriteString("data: ")
	w.Write(data)
	w.WriteString("\n\n")

	if err := w.Flush(); err != nil {
		h.log.Debug().Err(err).Msg("client disconnected during write")
		return false
	}
	return true
}

// Recent returns the remembered activity without opening a stream.
func (h *EventsHandler) Recent(c *fiber.Ctx) error {
	events := h.hub.Recent()
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

func (h *EventsHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.hub.Stats())
}
