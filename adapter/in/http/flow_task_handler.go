package http

import (
	in "flowpilot/core/port/in"
	"flowpilot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler serves approved tasks.
type TaskHandler struct {
	tasks in.TaskService
}

func NewTaskHandler(tasks in.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("/tasks", h.List)
	router.Get("/task/:id", h.Get)
	router.Post("/task/:id/complete", h.Complete)
}

// List returns every task with status totals.
// Supports ?fields=id,task,priority to trim task objects.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	list, err := h.tasks.List(c.UserContext())
	if err != nil {
		return err
	}
	if c.Query("fields") == "" {
		return c.JSON(list)
	}
	return c.JSON(fiber.Map{
		"tasks":     response.SelectFields(c, list.Tasks),
		"total":     list.Total,
		"pending":   list.Pending,
		"completed": list.Completed,
	})
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.tasks.Complete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Fields(c, fiber.Map{"task": task})
}
