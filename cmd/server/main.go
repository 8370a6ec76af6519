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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/catalog"
	"github.com/ayush/pokecatch/backend/internal/config"
	"github.com/ayush/pokecatch/backend/internal/logging"
	"github.com/ayush/pokecatch/backend/internal/pokemon"
	"github.com/ayush/pokecatch/backend/internal/router"
	"github.com/ayush/pokecatch/backend/internal/store"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	base, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = base.Sync() }()
	logger := base.Sugar()

	if err := cfg.Validate(); err != nil {
		logger.Fatalw("invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}

	// ── MongoDB (activity journal) ───────────────────────────
	var journal pokemon.Journal
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return err
		}
		journal = mongoStore
	} else {
		logger.Warn("MONGO_URI not set, activity history disabled")
	}

	// ── Redis (hot catalog cache) ────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// ── MinIO (catalog snapshots) ────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		return fmt.Errorf("minio connect: %w", err)
	}

	// ── Catalog ──────────────────────────────────────────────
	lookup := catalog.NewCache(
		catalog.NewClient(cfg.PokeAPIURL, cfg.CatalogTimeout),
		rdb, minioStore, cfg.CatalogCacheTTL, logger,
	)

	// ── Auth ─────────────────────────────────────────────────
	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), auth.DefaultTokenTTL)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(pgStore, hasher, tokens)
	if err != nil {
		return err
	}

	// ── Router ───────────────────────────────────────────────
	coll := pokemon.NewCollection(pgStore, journal, logger)
	h := router.New(router.Deps{
		Auth:           auth.NewHandler(authSvc, logger),
		Pokemon:        pokemon.NewHandler(coll, lookup, logger),
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("backend listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
