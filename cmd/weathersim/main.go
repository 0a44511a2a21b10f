package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/colony-weather-sim/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/colony-weather-sim/internal/adapter/kafka"
	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/engine"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
)

func main() {
	// Best-effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	seed := time.Now().UnixNano()
	if v := os.Getenv("SIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}

	eng, registry := engine.Build(cfg, nil, seed, logger, metrics)
	logger.Info("simulation assembled",
		"settlements", len(registry.All()), "seed", seed, "tick_interval", cfg.TickInterval)

	// Optional storm alert publishing (enabled when ALERTS_TOPIC is set).
	var alerts *kafkaadapter.AlertWriter
	if cfg.AlertsEnabled {
		alerts = kafkaadapter.NewAlertWriter(cfg, logger, metrics)
		logger.Info("storm alerts enabled", "topic", cfg.AlertsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("storm alerts disabled")
	}
	// The sink has to be attached through the engine's storm lifecycle;
	// Build wires everything else.
	if alerts != nil {
		eng.SetAlertSink(alerts)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, eng, logger)

	// Periodic cache maintenance bounds per-location cache growth.
	maintenance := cron.New()
	if _, err := maintenance.AddFunc(cfg.MaintenanceSchedule, eng.ClearCaches); err != nil {
		logger.Error("invalid maintenance schedule", "schedule", cfg.MaintenanceSchedule, "error", err)
		os.Exit(1)
	}
	maintenance.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Error("engine error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	maintenance.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alerts != nil {
		if err := alerts.Close(); err != nil {
			logger.Error("alert writer close error", "error", err)
		}
	}
	eng.Close()

	logger.Info("shutdown complete")
}
