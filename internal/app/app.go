package app

import (
	"item-api/config"
	"item-api/internal/services"
	"item-api/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	Logger      *logrus.Logger
	DBPool      *pgxpool.Pool // nil with the memory store driver
	RedisClient *redis.Client // nil when the cache is disabled
	ItemService services.ItemService
	Verifier    *validation.Verifier
}
