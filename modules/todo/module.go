package todo

import (
	"context"
	"fmt"

	"github.com/example/todo-reminders/domain/todo"
	"github.com/example/todo-reminders/internal/logging"
	"github.com/example/todo-reminders/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the SQLite store and the todo service.
type Module struct {
	db          *gorm.DB
	dbPath      string
	debug       bool
	cachePlugin *cache.PluginModule
	service     *Service
	log         zerolog.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
)

// NewModule creates a todo module backed by the SQLite file at dbPath.
// debug raises the GORM logger to Info.
func NewModule(dbPath string, debug bool) *Module {
	return &Module{
		dbPath: dbPath,
		debug:  debug,
		log:    logging.Component("todo"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "todo"
}

// SetPlugin receives plugin instances from the mono framework before Start.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	if cachePlugin, ok := plugin.(*cache.PluginModule); ok {
		m.cachePlugin = cachePlugin
		m.log.Debug().Msg("cache plugin injected")
	}
}

// Start opens the database, migrates it and builds the service.
func (m *Module) Start(_ context.Context) error {
	if m.cachePlugin == nil {
		return fmt.Errorf("cache plugin not set - ensure 'cache' plugin is registered")
	}
	mirror := m.cachePlugin.Port()
	if mirror == nil {
		return fmt.Errorf("cache plugin not started")
	}

	level := logger.Warn
	if m.debug {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := todo.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.db = db

	m.service = NewService(
		todo.NewListRepository(db),
		todo.NewItemRepository(db),
		todo.NewReminderRepository(db),
		mirror,
	)

	m.log.Info().Str("db_path", m.dbPath).Msg("module started")
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				m.log.Error().Err(err).Msg("error closing database")
			}
		}
	}
	m.log.Info().Msg("module stopped")
	return nil
}

// Service returns the todo service. It is nil before Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health reports whether the database answers a ping.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database error: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"db_path": m.dbPath,
		},
	}
}
