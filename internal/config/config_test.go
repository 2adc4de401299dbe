package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./todos.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "reminder:", cfg.Redis.Prefix)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 8080\n  shutdown_timeout: 5s\nredis:\n  addr: cache:6379\nlog:\n  format: json\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("TODO_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TODO_SERVER_CORS_ORIGINS", "https://todo.example.com")
	t.Setenv("TODO_UNKNOWN_THING", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr, "env should override the file")
	assert.Equal(t, "https://todo.example.com", cfg.Server.CORSOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "empty redis prefix", mutate: func(c *Config) { c.Redis.Prefix = "" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"TODO_REDIS_ADDR":              "redis.addr",
		"TODO_DATABASE_PATH":           "database.path",
		"TODO_SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
		"TODO_LOG_LEVEL":               "log.level",
		"TODO_CONFIG":                  "",
		"TODO_SOMETHING_ELSE":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envTransformFunc(in), in)
	}
}
