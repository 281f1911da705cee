package app

import (
	"context"
	"fmt"

	"item-api/config"
	"item-api/db"
	"item-api/internal/database"
	"item-api/internal/services"
	"item-api/internal/storage"
	"item-api/internal/storage/cache"
	"item-api/internal/storage/memory"
	"item-api/internal/storage/postgres"
	"item-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// New opens the configured store (and cache), applies migrations when asked,
// and returns the wired container. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Application, error) {
	a := &Application{
		Config:   cfg,
		Logger:   log,
		Verifier: validation.NewItemVerifier(validator.New()),
	}

	var repo storage.ItemRepository
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("Using in-memory item store; data is lost on restart")
		repo = memory.NewItemRepo()
	case config.StoreDriverPostgres:
		pool, err := database.NewConnectionPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		a.DBPool = pool

		if cfg.DB.Migrate {
			applied, err := database.Migrate(ctx, pool, db.Migrations())
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("applying migrations: %w", err)
			}
			log.WithField("applied", applied).Info("Migrations up to date")
		}
		repo = postgres.NewItemRepo(pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.Enabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.RedisClient = client

		var opts []cache.Option
		if cfg.Store.Driver == config.StoreDriverMemory {
			// Memory ids restart at 1 on every boot; keep this process's
			// entries apart from those of earlier runs.
			opts = append(opts, cache.WithNamespace(uuid.NewString()))
		}
		repo = cache.NewItemRepo(repo, client, cfg.Redis.TTL, log, opts...)
	}

	a.ItemService = services.NewItemService(repo, log)
	return a, nil
}

// Close releases the store handles. It is safe to call more than once.
func (a *Application) Close() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.WithError(err).Warn("Closing Redis client")
		}
		a.RedisClient = nil
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.DBPool = nil
	}
}
