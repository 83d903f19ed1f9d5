package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"push-dispatch-backend/config"
	"push-dispatch-backend/internal/api"
	"push-dispatch-backend/internal/broker"
	"push-dispatch-backend/internal/db"
	"push-dispatch-backend/internal/dispatch"
	"push-dispatch-backend/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "pushd").Logger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatal().Err(err).Str("level", cfg.Log.Level).Msg("invalid log level")
	}
	logger = logger.Level(level)
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	logger.Info().Msg("database initialized")

	appStore := store.NewGormStore(gormDB)

	gateway, err := broker.Connect(cfg.Broker.URL, cfg.Broker.ConnectTimeout(), cfg.Broker.PublishTimeout(), logger)
	if err != nil {
		logger.Fatal().Err(err).Str("url", cfg.Broker.URL).Msg("failed to connect to broker")
	}
	defer gateway.Close()
	logger.Info().Str("url", gateway.URL()).Msg("broker connected")

	dispatcher := dispatch.NewDispatcher(appStore, gateway, cfg.Broker.Topics.PushDispatch, logger)

	handler := api.NewHandler(appStore, dispatcher, gateway, gateway, cfg.Broker.Topics, logger)
	router := api.NewRouter(handler, appStore, &cfg.Server)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutdown signal received, stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
