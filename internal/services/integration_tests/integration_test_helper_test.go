package integration_tests

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"item-api/db"
	"item-api/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testDB *pgxpool.Pool
var testRedisClient *redis.Client

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// getTestClients connects to the database named by TEST_DATABASE_URL and,
// when TEST_REDIS_URL is set, to a Redis instance. Tests are skipped without
// a database.
func getTestClients(t *testing.T) (*pgxpool.Pool, *redis.Client) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}

	if testDB == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, dsn)
		require.NoError(t, err, "Failed to create test pool")
		require.NoError(t, pool.Ping(ctx), "Failed to reach test database")
		testDB = pool

		runMigrations(t)
	}

	// --- Redis Setup ---
	if testRedisClient == nil {
		redisAddr := os.Getenv("TEST_REDIS_URL")
		if redisAddr == "" {
			log.Println("WARN: TEST_REDIS_URL not set. Redis-dependent tests will be skipped.")
		} else {
			rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
			ctxRedis, cancelRedis := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancelRedis()
			if err := rdb.Ping(ctxRedis).Err(); err != nil {
				log.Printf("WARN: Failed to connect to test Redis at %s: %v.", redisAddr, err)
			} else {
				testRedisClient = rdb
			}
		}
	}
	return testDB, testRedisClient
}

// runMigrations applies the embedded migrations.
func runMigrations(t *testing.T) {
	t.Helper()
	_, err := database.Migrate(context.Background(), testDB, db.Migrations())
	require.NoError(t, err)
}

// cleanupItems empties the items table and resets its id sequence.
func cleanupItems(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(ctx, "TRUNCATE items RESTART IDENTITY")
	require.NoError(t, err, "Failed to truncate items table")
}

// cleanupRedis flushes the test Redis database. Use with caution!
func cleanupRedis(t *testing.T, client *redis.Client) {
	t.Helper()
	if client == nil {
		return
	}
	require.NoError(t, client.FlushDB(context.Background()).Err(), "Failed to flush test Redis database")
}
