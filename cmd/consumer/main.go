package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/config"
	"github.com/Maho1100/growth-loop-engine/internal/consumer"
	"github.com/Maho1100/growth-loop-engine/internal/logger"
	"github.com/Maho1100/growth-loop-engine/internal/metrics"
	"github.com/Maho1100/growth-loop-engine/internal/queue/sqs"
	"github.com/Maho1100/growth-loop-engine/internal/repository/postgres"
)

func main() {
	// Load configuration
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

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment))

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

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize consumer
	c := consumer.NewConsumer(cfg, sqsClient, repo, m, log)

	// Start health check and metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start consumer
	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	go func() {
		if err := c.Start(consumerCtx); err != nil {
			log.Fatal("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
}
