package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	api "userapp/internal/adapter/http"
	"userapp/internal/config"
	"userapp/pkg/logging"
	"userapp/pkg/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := logging.New(cfg.AppEnv)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	registry := prometheus.NewRegistry()

	if cfg.TelemetryEnabled {
		tel, err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
			ServiceName:    "userapp",
			ServiceVersion: cfg.Version,
			Environment:    cfg.AppEnv,
			MetricsPort:    cfg.MetricsPort,
			OTLPEndpoint:   cfg.OTLPEndpoint,
		})

		if err != nil {
			log.Fatal("Failed to initialize telemetry: ", err)
		}

		defer tel.Shutdown(ctx)

		registry = tel.PrometheusRegistry
	}

	metrics := telemetry.NewAppMetrics(registry)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := api.StartServer(cfg, metrics, logger); err != nil {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}
