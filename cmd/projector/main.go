package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/moringa-store/internal/config"
	"github.com/example/moringa-store/internal/infrastructure/kafka"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/logging"
	"github.com/example/moringa-store/internal/projection"
)

const consumerGroup = "read-model-projector"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log, "projector")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}

	projector := projection.NewProjector(store.NewPostgresReadStore(db), logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup, logger)
	defer consumer.Close()

	logger.Info("projector started", "topic", cfg.KafkaTopic, "group", consumerGroup)
	if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("projector stopped")
}
