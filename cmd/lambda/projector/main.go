package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/example/moringa-store/internal/config"
	"github.com/example/moringa-store/internal/infrastructure/kinesis"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/logging"
	"github.com/example/moringa-store/internal/projection"
)

var (
	projector *projection.Projector
	logger    *slog.Logger
)

func init() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err = logging.New(cfg.Log, "lambda-projector")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	db, err := store.ConnectPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	projector = projection.NewProjector(store.NewPostgresReadStore(db), logger)
}

func handler(ctx context.Context, batch events.KinesisEvent) (events.KinesisEventResponse, error) {
	return kinesis.ProcessBatch(ctx, batch, projector.Project, logger), nil
}

func main() {
	lambda.Start(handler)
}
