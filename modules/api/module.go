// Package api serves the todo HTTP API.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/todo-reminders/internal/logging"
	"github.com/example/todo-reminders/internal/metrics"
	todomod "github.com/example/todo-reminders/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds HTTP server settings.
type Config struct {
	Port        int
	CORSOrigins string
}

// Module provides the HTTP API as a mono module.
type Module struct {
	cfg        Config
	app        *fiber.App
	todoModule *todomod.Module
	checks     map[string]mono.HealthCheckableModule
	log        zerolog.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new API module.
func NewModule(cfg Config) *Module {
	return &Module{
		cfg:    cfg,
		checks: make(map[string]mono.HealthCheckableModule),
		log:    logging.Component("api"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetTodoModule sets the todo module dependency.
func (m *Module) SetTodoModule(tm *todomod.Module) {
	m.todoModule = tm
}

// AddHealthCheck includes a module in the /health report.
func (m *Module) AddHealthCheck(name string, check mono.HealthCheckableModule) {
	m.checks[name] = check
}

// Start builds the Fiber app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.todoModule == nil {
		return fmt.Errorf("todo module not set")
	}
	service := m.todoModule.Service()
	if service == nil {
		return fmt.Errorf("todo service not available")
	}

	m.app = NewApp(NewHandlers(service, m.checks), m.cfg.CORSOrigins)

	go func() {
		addr := fmt.Sprintf(":%d", m.cfg.Port)
		m.log.Info().Str("addr", addr).Msg("starting HTTP server")
		if err := m.app.Listen(addr); err != nil {
			m.log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	m.log.Info().Msg("module started")
	return nil
}

// NewApp builds a Fiber app with middleware and every route registered.
func NewApp(h *Handlers, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Todo Reminders",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	if corsOrigins == "" {
		corsOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + SessionHeader,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(requestMetrics)

	setupRoutes(app, h)
	return app
}

// setupRoutes configures all HTTP routes.
func setupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	lists := api.Group("/todo-lists")
	lists.Get("/", h.ListLists)
	lists.Post("/", h.CreateList)
	lists.Get("/:id", h.GetList)
	lists.Patch("/:id", h.UpdateList)
	lists.Delete("/:id", h.DeleteList)

	items := api.Group("/todo-items")
	items.Post("/", h.CreateItem)
	items.Get("/:id", h.GetItem)
	items.Patch("/:id", h.UpdateItem)
	items.Delete("/:id", h.DeleteItem)

	reminders := api.Group("/reminders")
	reminders.Get("/", h.ListReminders)
	reminders.Post("/", h.CreateReminder)
	reminders.Get("/:id", h.GetReminder)
	reminders.Patch("/:id", h.UpdateReminder)
	reminders.Delete("/:id", h.DeleteReminder)
}

func requestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	metrics.RecordRequest(c.Method(), c.Route().Path, status, time.Since(start))
	return err
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		m.log.Info().Msg("shutting down HTTP server")
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	m.log.Info().Msg("module stopped")
	return nil
}
