package cache

import (
	"context"
	"fmt"

	"github.com/example/todo-reminders/internal/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/rs/zerolog"
)

// PluginModule exposes the reminder cache to other modules as a mono plugin.
// Plugins start before and stop after regular modules.
type PluginModule struct {
	container types.ServiceContainer
	cfg       Config
	cache     ReminderCache
	mirror    *Mirror
	log       zerolog.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a cache plugin that connects to Redis on Start.
func NewPluginModule(cfg Config) *PluginModule {
	return &PluginModule{cfg: cfg, log: logging.Component("cache")}
}

// NewPluginModuleWithCache creates a cache plugin around an existing cache.
// Start will not open a Redis connection.
func NewPluginModuleWithCache(c ReminderCache, prefix string) *PluginModule {
	return &PluginModule{
		cfg:   Config{Prefix: prefix},
		cache: c,
		log:   logging.Component("cache"),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis. An unreachable server is logged, not fatal: the
// relational store stays authoritative and mirror writes are best effort.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.cache == nil {
		m.cache = New(NewRedisClient(m.cfg))
	}
	m.mirror = NewMirror(m.cache, m.cfg.Prefix)

	if err := m.cache.Ping(ctx); err != nil {
		m.log.Warn().Err(err).Str("addr", m.cfg.Addr).Msg("redis not reachable, reminder mirror degraded")
	} else {
		m.log.Info().Str("addr", m.cfg.Addr).Str("prefix", m.mirror.prefix).Msg("connected to redis")
	}
	m.log.Info().Msg("plugin started")
	return nil
}

// Stop closes the Redis connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.log.Error().Err(err).Msg("error closing redis connection")
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	m.log.Info().Msg("plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the mirror consumers write through. It is nil before Start.
func (m *PluginModule) Port() *Mirror {
	return m.mirror
}

// Health reports whether Redis answers PING.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cache not initialized",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.cfg.Addr,
			"prefix":     m.cfg.Prefix,
		},
	}
}
