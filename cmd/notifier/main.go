package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/moringa-store/internal/config"
	"github.com/example/moringa-store/internal/email"
	"github.com/example/moringa-store/internal/infrastructure/kafka"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/logging"
	"github.com/example/moringa-store/internal/notification"
	"github.com/example/moringa-store/internal/settings"
)

// Dedicated group so every event reaches the notifier as well as the projector.
const consumerGroup = "email-notifier"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log, "notifier")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	if !cfg.SMTP.Enabled() {
		logger.Error("SMTP_HOST and SMTP_FROM are required")
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

	provider := settings.NewCachedProvider(settings.NewPostgresProvider(db), cfg.SettingsCacheTTL, cfg.Shipping, logger)
	mailer := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	handler := notification.NewHandler(mailer, store.NewPostgresReadStore(db), provider, logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup, logger)
	defer consumer.Close()

	logger.Info("notifier started", "smtp_host", cfg.SMTP.Host, "smtp_port", cfg.SMTP.Port, "from", cfg.SMTP.From)
	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("notifier stopped")
}
