package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/docs"
	"github.com/Maho1100/growth-loop-engine/internal/config"
	"github.com/Maho1100/growth-loop-engine/internal/handler"
	"github.com/Maho1100/growth-loop-engine/internal/logger"
	"github.com/Maho1100/growth-loop-engine/internal/metrics"
	"github.com/Maho1100/growth-loop-engine/internal/repository/postgres"
	"github.com/Maho1100/growth-loop-engine/internal/service"
)

// @title Growth Loop Engine API
// @version 1.0
// @description API for submitting engagement events and retrieving derived analytics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize Postgres client
	pgClient, err := postgres.NewClient(ctx, &cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	// Apply schema migration
	if err := pgClient.RunMigration(ctx, cfg.Postgres.MigrationPath); err != nil {
		log.Fatal("Failed to run migration", zap.Error(err))
	}
	log.Info("Database schema ready")

	// Initialize repository
	repo := postgres.NewRepository(pgClient, log)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize event service
	eventService := service.NewEventService(repo, m, log)

	// Initialize handler
	h := handler.NewHandler(eventService, registry, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
