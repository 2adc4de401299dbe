package api

import (
	"errors"
	"strings"

	"github.com/example/todo-reminders/domain/todo"
	"github.com/example/todo-reminders/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const msgInvalidBody = "Invalid request body"

// respondError maps service errors to status codes. Anything unclassified is
// logged and answered with fallback so store details never reach the client.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, fallback string) error {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
	}

	var te *todo.Error
	if errors.As(err, &te) {
		switch {
		case errors.Is(te.Err, todo.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": capitalize(string(te.Entity)) + " not found"})
		case errors.Is(te.Err, todo.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized access to " + string(te.Entity)})
		}
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(fallback)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// errorHandler renders errors returned by fiber itself (unknown routes, panics
// caught by recover) in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	e, ok := err.(*fiber.Error)
	if !ok {
		e = fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
}
