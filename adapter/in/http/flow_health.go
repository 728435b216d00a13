package http

import (
	"context"
	"time"

	"flowpilot/core/port/out"
	"flowpilot/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// StoreProbe is implemented by shared store backends.
type StoreProbe interface {
	out.HealthChecker
	PoolHealth() metrics.PoolHealth
	BreakerState() string
}

type HealthHandler struct {
	store   StoreProbe
	backend string
	started time.Time
}

// NewHealthHandler creates a health handler. store is nil for the
// in-process backend.
func NewHealthHandler(backend string, store StoreProbe) *HealthHandler {
	return &HealthHandler{store: store, backend: backend, started: time.Now()}
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "ok",
		"service":        "flowpilot",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{}
	allHealthy := true

	if h.store != nil {
		store := fiber.Map{"breaker": h.store.BreakerState()}
		if err := h.store.Ping(ctx); err != nil {
			store["status"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			store["status"] = "healthy"
		}

		pool := h.store.PoolHealth()
		store["pool"] = pool
		if pool.Status == metrics.PoolUnhealthy {
			allHealthy = false
		}
		checks[h.backend] = store
	} else {
		checks[h.backend] = fiber.Map{"status": "healthy"}
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
