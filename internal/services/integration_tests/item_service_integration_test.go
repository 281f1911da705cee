package integration_tests

import (
	"context"
	"testing"
	"time"

	"item-api/internal/models"
	"item-api/internal/services"
	"item-api/internal/storage"
	"item-api/internal/storage/cache"
	"item-api/internal/storage/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_Postgres(t *testing.T) {
	pool, _ := getTestClients(t)
	ctx := context.Background()
	cleanupItems(ctx, t, pool)
	t.Cleanup(func() { cleanupItems(context.Background(), t, pool) })

	svc := services.NewItemService(postgres.NewItemRepo(pool), quietLogger())

	t.Run("empty list", func(t *testing.T) {
		items, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	var widget models.Item
	t.Run("create then get", func(t *testing.T) {
		var err error
		widget, err = svc.Create(ctx, models.ItemInput{Name: "Widget", Price: 10})
		require.NoError(t, err)
		assert.Positive(t, widget.ID)

		got, found, err := svc.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, widget, got)
	})

	t.Run("zero price is stored", func(t *testing.T) {
		free, err := svc.Create(ctx, models.ItemInput{Name: "Free", Price: 0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, free.Price)
		assert.Greater(t, free.ID, widget.ID)
	})

	t.Run("update", func(t *testing.T) {
		updated, found, err := svc.Update(ctx, widget.ID, models.ItemInput{Name: "Widget Pro", Price: 12.5})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, models.Item{ID: widget.ID, Name: "Widget Pro", Price: 12.5}, updated)
	})

	t.Run("update missing creates nothing", func(t *testing.T) {
		before, err := svc.ListAll(ctx)
		require.NoError(t, err)

		_, found, err := svc.Update(ctx, 999999, models.ItemInput{Name: "Ghost", Price: 1})
		require.NoError(t, err)
		assert.False(t, found)

		after, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, widget.ID))

		_, found, err := svc.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.False(t, found)

		err = svc.Delete(ctx, widget.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestItemRepo_CheckConstraint(t *testing.T) {
	pool, _ := getTestClients(t)
	ctx := context.Background()
	cleanupItems(ctx, t, pool)

	repo := postgres.NewItemRepo(pool)
	_, err := repo.Create(ctx, models.ItemInput{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestItemService_PostgresWithCache(t *testing.T) {
	pool, rdb := getTestClients(t)
	if rdb == nil {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	cleanupItems(ctx, t, pool)
	cleanupRedis(t, rdb)
	t.Cleanup(func() { cleanupRedis(t, rdb) })

	repo := cache.NewItemRepo(postgres.NewItemRepo(pool), rdb, time.Minute, quietLogger())
	svc := services.NewItemService(repo, quietLogger())

	item, err := svc.Create(ctx, models.ItemInput{Name: "Cached", Price: 3})
	require.NoError(t, err)

	_, found, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, found)

	updated, found, err := svc.Update(ctx, item.ID, models.ItemInput{Name: "Fresh", Price: 4})
	require.NoError(t, err)
	require.True(t, found)

	got, found, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, got, "update must not leave a stale cache entry")
}
