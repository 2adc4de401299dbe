package api

import (
	"context"
	"strconv"
	"time"

	"github.com/example/todo-reminders/domain/todo"
	"github.com/example/todo-reminders/internal/logging"
	"github.com/example/todo-reminders/internal/validation"
	todomod "github.com/example/todo-reminders/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SessionHeader carries the caller's opaque session tag.
const SessionHeader = "x-session-id"

// healthTimeout bounds the store and cache pings of one /health request.
const healthTimeout = 3 * time.Second

// Handlers provides HTTP handlers for the API.
type Handlers struct {
	service *todomod.Service
	checks  map[string]mono.HealthCheckableModule
	log     zerolog.Logger
}

// NewHandlers creates handlers backed by service. checks are reported by /health.
func NewHandlers(service *todomod.Service, checks map[string]mono.HealthCheckableModule) *Handlers {
	return &Handlers{
		service: service,
		checks:  checks,
		log:     logging.Component("api"),
	}
}

func session(c *fiber.Ctx) string {
	return c.Get(SessionHeader)
}

// ListLists handles GET /api/todo-lists.
func (h *Handlers) ListLists(c *fiber.Ctx) error {
	var archived *bool
	if raw := c.Query("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, h.log, validation.NewRequestValidationError("archived", "archived must be true or false"), "Failed to fetch todo lists")
		}
		archived = &v
	}

	lists, err := h.service.ListLists(c.UserContext(), session(c), archived)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch todo lists")
	}
	return c.JSON(lists)
}

// CreateList handles POST /api/todo-lists.
func (h *Handlers) CreateList(c *fiber.Ctx) error {
	var in todo.CreateListInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	list, err := h.service.CreateList(c.UserContext(), session(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create todo list")
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// GetList handles GET /api/todo-lists/:id.
func (h *Handlers) GetList(c *fiber.Ctx) error {
	list, err := h.service.GetList(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch todo list")
	}
	return c.JSON(list)
}

// UpdateList handles PATCH /api/todo-lists/:id.
func (h *Handlers) UpdateList(c *fiber.Ctx) error {
	var in todo.UpdateListInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	list, err := h.service.UpdateList(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update todo list")
	}
	return c.JSON(list)
}

// DeleteList handles DELETE /api/todo-lists/:id.
func (h *Handlers) DeleteList(c *fiber.Ctx) error {
	if err := h.service.DeleteList(c.UserContext(), session(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Failed to delete todo list")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateItem handles POST /api/todo-items.
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	var in todo.CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	item, err := h.service.CreateItem(c.UserContext(), session(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create todo item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItem handles GET /api/todo-items/:id.
func (h *Handlers) GetItem(c *fiber.Ctx) error {
	item, err := h.service.GetItem(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch todo item")
	}
	return c.JSON(item)
}

// UpdateItem handles PATCH /api/todo-items/:id.
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	var in todo.UpdateItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	item, err := h.service.UpdateItem(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update todo item")
	}
	return c.JSON(item)
}

// DeleteItem handles DELETE /api/todo-items/:id.
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.UserContext(), session(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Failed to delete todo item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListReminders handles GET /api/reminders.
func (h *Handlers) ListReminders(c *fiber.Ctx) error {
	reminders, err := h.service.ListReminders(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch reminders")
	}
	return c.JSON(reminders)
}

// CreateReminder handles POST /api/reminders.
func (h *Handlers) CreateReminder(c *fiber.Ctx) error {
	var in todo.CreateReminderInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	reminder, err := h.service.CreateReminder(c.UserContext(), session(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create reminder")
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// GetReminder handles GET /api/reminders/:id.
func (h *Handlers) GetReminder(c *fiber.Ctx) error {
	reminder, err := h.service.GetReminder(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch reminder")
	}
	return c.JSON(reminder)
}

// UpdateReminder handles PATCH /api/reminders/:id.
func (h *Handlers) UpdateReminder(c *fiber.Ctx) error {
	var in todo.UpdateReminderInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgInvalidBody)
	}

	reminder, err := h.service.UpdateReminder(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update reminder")
	}
	return c.JSON(reminder)
}

// DeleteReminder handles DELETE /api/reminders/:id.
func (h *Handlers) DeleteReminder(c *fiber.Ctx) error {
	if err := h.service.DeleteReminder(c.UserContext(), session(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Failed to delete reminder")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type checkResult struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthCheck handles GET /health. Dependencies are checked concurrently.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	results := make([]mono.HealthStatus, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		check := h.checks[name]
		g.Go(func() error {
			results[i] = check.Health(gctx)
			return nil
		})
	}
	_ = g.Wait()

	healthy := true
	checks := make(map[string]checkResult, len(names))
	for i, name := range names {
		r := results[i]
		healthy = healthy && r.Healthy
		checks[name] = checkResult{Healthy: r.Healthy, Message: r.Message, Details: r.Details}
	}

	status := "healthy"
	code := fiber.StatusOK
	if !healthy {
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"service":   "todo-reminders",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
