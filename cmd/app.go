package main

import (
	"context"
	"fmt"
	"log/slog"

	"social-sprout/internal/adapter/memory"
	"social-sprout/internal/adapter/mongodb"
	"social-sprout/internal/adapter/postgres"
	"social-sprout/internal/adapter/provider"
	"social-sprout/internal/adapter/usecase"
	"social-sprout/internal/config"
	"social-sprout/internal/core/port"
	"social-sprout/internal/db"
	"social-sprout/internal/worker"
)

// openStore connects the repository selected by STORE_DRIVER. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Repository, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Psql.RunMigrations {
			if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection: %w", err)
		}
		return postgres.NewRepository(pool), pool.Close, nil
	case "mongo":
		client, err := db.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.CloseMongo(context.Background(), client); err != nil {
				logger.Error("mongo disconnect", slog.Any("error", err))
			}
		}
		repo := mongodb.NewRepository(client.Database(cfg.Mongo.Database))
		if err = repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil
	default:
		logger.Warn("using in-memory store, data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}
}

// newGenerationPool wires the configured providers into a generator and
// wraps it in a worker pool. The pool is not started.
func newGenerationPool(cfg config.Config, repo port.Repository, logger *slog.Logger) (*worker.Pool, error) {
	images, err := provider.NewImageProvider(cfg.Provider, logger)
	if err != nil {
		return nil, err
	}
	texts, err := provider.NewTextProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	gen := usecase.NewGenerator(repo, images, texts, usecase.GeneratorConfig{
		PostConcurrency: cfg.Generation.PostConcurrency,
		PostTimeout:     cfg.Generation.PostTimeout,
	}, logger)
	logger.Info("generation providers",
		slog.String("image", cfg.Provider.Image),
		slog.String("text", cfg.Provider.Text),
		slog.Int("workers", cfg.Generation.Workers),
	)
	return worker.NewPool(gen, cfg.Generation.Workers, cfg.Generation.QueueSize, logger), nil
}

func newRecovery(cfg config.Config, repo port.Repository, dispatcher port.GenerationDispatcher, logger *slog.Logger) *usecase.Recovery {
	return usecase.NewRecovery(repo, dispatcher,
		usecase.RecoveryMode(cfg.Generation.Recovery),
		cfg.Generation.RecoveryInterval,
		logger)
}

func placeholderPolicy(cfg config.Config) usecase.PlaceholderPolicy {
	return usecase.PlaceholderPolicy{
		PerPlatform: cfg.Generation.Mode == "per_platform",
		Count:       cfg.Generation.Placeholders,
	}
}
