package main

import (
	"context"
	"fmt"
	"os"

	"github.com/example/todo-reminders/internal/config"
	"github.com/example/todo-reminders/internal/logging"
	apimod "github.com/example/todo-reminders/modules/api"
	cachemod "github.com/example/todo-reminders/modules/cache"
	todomod "github.com/example/todo-reminders/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.Component("main")

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Str("database", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Str("prefix", cfg.Redis.Prefix).
		Msg("starting todo service")

	cachePlugin := cachemod.NewPluginModule(cachemod.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	})
	todoModule := todomod.NewModule(cfg.Database.Path, cfg.Database.Debug)
	apiModule := apimod.NewModule(apimod.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	apiModule.SetTodoModule(todoModule)
	apiModule.AddHealthCheck("database", todoModule)
	apiModule.AddHealthCheck("cache", cachePlugin)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mono application")
	}

	// Plugins start before modules, so the mirror exists when todo starts.
	if err := app.RegisterPlugin(cachePlugin, "cache"); err != nil {
		log.Fatal().Err(err).Msg("failed to register cache plugin")
	}
	app.Register(todoModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}

	log.Info().Msgf("API available at http://localhost:%d/api", cfg.Server.Port)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Info().Msg("graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("code", exitCode).Msg("application exited")
	os.Exit(exitCode)
}
