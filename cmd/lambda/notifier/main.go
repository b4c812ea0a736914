package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/example/moringa-store/internal/config"
	"github.com/example/moringa-store/internal/email"
	"github.com/example/moringa-store/internal/infrastructure/kinesis"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/logging"
	"github.com/example/moringa-store/internal/notification"
	"github.com/example/moringa-store/internal/settings"
)

var (
	notifier *notification.Handler
	logger   *slog.Logger
)

func init() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err = logging.New(cfg.Log, "lambda-notifier")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	db, err := store.ConnectPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	provider := settings.NewCachedProvider(settings.NewPostgresProvider(db), cfg.SettingsCacheTTL, cfg.Shipping, logger)
	mailer := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	notifier = notification.NewHandler(mailer, store.NewPostgresReadStore(db), provider, logger)
	logger.Info("notifier initialised", "smtp_host", cfg.SMTP.Host)
}

func handler(ctx context.Context, batch events.KinesisEvent) (events.KinesisEventResponse, error) {
	return kinesis.ProcessBatch(ctx, batch, notifier.Notify, logger), nil
}

func main() {
	lambda.Start(handler)
}
