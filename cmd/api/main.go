package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/moringa-store/internal/api"
	"github.com/example/moringa-store/internal/auth"
	"github.com/example/moringa-store/internal/command"
	"github.com/example/moringa-store/internal/config"
	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/infrastructure/kafka"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/invoice"
	"github.com/example/moringa-store/internal/logging"
	"github.com/example/moringa-store/internal/metrics"
	"github.com/example/moringa-store/internal/projection"
	"github.com/example/moringa-store/internal/query"
	"github.com/example/moringa-store/internal/settings"
)

const accessTokenExpiry = 8 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log, "api")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

// backend is everything that depends on the chosen event store.
type backend struct {
	events    store.EventStoreInterface
	readStore store.ReadStoreInterface
	settings  settings.Provider
	projector *projection.Projector
	producer  *kafka.Producer
	// replay rebuilds read models at startup
	replay bool
	// consume starts the in-process Kafka projection consumer
	consume bool
	closers []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	if cfg.EventStore == config.StoreMemory {
		b.readStore = store.NewMemoryReadStore()
		b.projector = projection.NewProjector(b.readStore, logger)
		b.events = store.NewEventStore(b.projector)
		b.settings = settings.NewStaticProvider(cfg.Shipping)
		logger.Warn("using in-memory stores, data is lost on restart")
		return b, nil
	}

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, db.Close)
	if err := store.EnsureSchema(ctx, db); err != nil {
		b.Close()
		return nil, err
	}
	logger.Info("connected to PostgreSQL")

	b.readStore = store.NewPostgresReadStore(db)
	b.projector = projection.NewProjector(b.readStore, logger)
	b.settings = settings.NewCachedProvider(settings.NewPostgresProvider(db), cfg.SettingsCacheTTL, cfg.Shipping, logger)

	switch cfg.EventStore {
	case config.StoreDynamoDB:
		// Projection runs in the stream-triggered Lambda.
		es, err := store.NewDynamoEventStoreFromEnv(ctx, cfg.AWSRegion, cfg.DynamoTable, cfg.DynamoSnapshotTable)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.events = es
	default:
		b.events, b.replay = newPostgresEvents(db, b, cfg), true
	}
	return b, nil
}

func newPostgresEvents(db *sql.DB, b *backend, cfg *config.Config) store.EventStoreInterface {
	if len(cfg.KafkaBrokers) == 0 {
		return store.NewPostgresEventStore(db, b.projector)
	}
	b.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	b.closers = append(b.closers, b.producer.Close)
	b.consume = true
	return store.NewPostgresEventStore(db, b.producer)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting moringa store",
		"event_store", cfg.EventStore,
		"kafka", cfg.KafkaBrokers,
		"topic", cfg.KafkaTopic,
	)

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	catalog := coupon.MultiCatalog{query.NewCouponCatalog(b.readStore), coupon.DemoCatalog()}
	carts := cart.NewService(b.events, catalog)
	m := metrics.New()

	commands := command.NewHandler(command.Deps{
		Products:  product.NewService(b.events),
		Carts:     carts,
		Orders:    order.NewService(b.events),
		Coupons:   coupon.NewService(b.events),
		ReadStore: b.readStore,
		Settings:  b.settings,
		Metrics:   m,
		Logger:    logger,
	})
	queries := query.NewHandler(b.readStore, carts, b.settings)

	if b.replay {
		n, err := b.projector.Replay(ctx, b.events)
		if err != nil {
			return err
		}
		logger.Info("read models rebuilt", "events", n)
	}

	var wg sync.WaitGroup
	if b.consume {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "api-projector", logger)
		defer consumer.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, b.projector.HandleEvent); err != nil && ctx.Err() == nil {
				logger.Error("projection consumer stopped", "error", err)
			}
		}()
		logger.Info("async projection enabled, read models may lag writes")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, accessTokenExpiry)
	router := api.NewRouter(api.Deps{
		Commands:      commands,
		Queries:       queries,
		Admin:         auth.NewAdminAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash, jwtService),
		JWT:           jwtService,
		Metrics:       m,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
		Shop:          invoice.DefaultShop(),
		Logger:        logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-serveErr:
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	return nil
}
