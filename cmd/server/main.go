package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/triviaduel/internal/api"
	"github.com/mcoot/triviaduel/internal/config"
	"github.com/mcoot/triviaduel/internal/factory"
	redisstorage "github.com/mcoot/triviaduel/internal/storage/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Defaults, then CONFIG_PATH (if set), then TRIVIA_* environment variables
	cfg := config.Default()
	if err := config.Load(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factoryCfg := factory.Config{
		BankPath:     cfg.Questions.BankPath,
		ReloadBank:   cfg.Questions.Reload,
		Logger:       logger,
		StorageType:  cfg.Storage.Type,
		RevealDelay:  cfg.Session.RevealDelay,
		FetchTimeout: cfg.Questions.FetchTimeout,
	}

	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.Redis.URL
		redisCfg.PoolSize = cfg.Storage.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Storage.Redis.MinIdleConns
		redisCfg.QuestionTTL = cfg.Storage.Redis.QuestionTTL
		redisCfg.Instrument = cfg.Storage.Redis.Instrument
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()
	app.Start()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		QuestionService:   app.QuestionService,
		Hub:               app.Hub,
		Metrics:           promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
		RequestObserver:   app.HTTPMetrics,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, logger)
	// SSE streams never finish on their own
	server.OnShutdown(app.Hub.Close)

	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
