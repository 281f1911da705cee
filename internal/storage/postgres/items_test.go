package postgres

import (
	"context"
	"errors"
	"testing"

	"item-api/internal/models"
	"item-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*ItemRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewItemRepo(mock), mock
}

func TestItemRepo_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows in id order", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := pgxmock.NewRows([]string{"id", "name", "price"}).
			AddRow(int64(1), "Widget", 10.0).
			AddRow(int64(2), "Gadget", 0.0)
		mock.ExpectQuery(`SELECT id, name, price FROM items ORDER BY id ASC`).WillReturnRows(rows)

		items, err := repo.GetAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, []models.Item{{ID: 1, Name: "Widget", Price: 10}, {ID: 2, Name: "Gadget", Price: 0}}, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT id, name, price FROM items`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}))

		items, err := repo.GetAll(ctx)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is propagated", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`SELECT id, name, price FROM items`).WillReturnError(dbErr)

		_, err := repo.GetAll(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT id, name, price FROM items WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).AddRow(int64(7), "Widget", 3.5))

		item, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, &models.Item{ID: 7, Name: "Widget", Price: 3.5}, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT id, name, price FROM items WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		item, err := repo.GetByID(ctx, 404)

		assert.Nil(t, item)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("returns store-assigned id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`INSERT INTO items \(name, price\) VALUES \(\$1, \$2\) RETURNING id, name, price`).
			WithArgs("Widget", 10.0).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).AddRow(int64(42), "Widget", 10.0))

		item, err := repo.Create(ctx, models.ItemInput{Name: "Widget", Price: 10})

		require.NoError(t, err)
		assert.Equal(t, &models.Item{ID: 42, Name: "Widget", Price: 10}, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check violation is a conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		pgErr := &pgconn.PgError{Code: "23514", Message: "new row violates check constraint"}
		mock.ExpectQuery(`INSERT INTO items`).
			WithArgs("Widget", -1.0).
			WillReturnError(pgErr)

		_, err := repo.Create(ctx, models.ItemInput{Name: "Widget", Price: -1})

		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.ErrorIs(t, err, pgErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		dbErr := errors.New("connection refused")
		mock.ExpectQuery(`INSERT INTO items`).WillReturnError(dbErr)

		_, err := repo.Create(ctx, models.ItemInput{Name: "Widget", Price: 1})

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "creating item")
	})
}

func TestItemRepo_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`UPDATE items SET name = \$1, price = \$2 WHERE id = \$3 RETURNING id, name, price`).
			WithArgs("Renamed", 2.0, int64(3)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).AddRow(int64(3), "Renamed", 2.0))

		item, err := repo.Update(ctx, 3, models.ItemInput{Name: "Renamed", Price: 2})

		require.NoError(t, err)
		assert.Equal(t, &models.Item{ID: 3, Name: "Renamed", Price: 2}, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`UPDATE items`).
			WithArgs("Renamed", 2.0, int64(99)).
			WillReturnError(pgx.ErrNoRows)

		item, err := repo.Update(ctx, 99, models.ItemInput{Name: "Renamed", Price: 2})

		assert.Nil(t, item)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepo_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes one row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM items WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows affected maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM items WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, 5), storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error is propagated", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		dbErr := errors.New("broken pipe")
		mock.ExpectExec(`DELETE FROM items`).WithArgs(int64(5)).WillReturnError(dbErr)

		err := repo.Delete(ctx, 5)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}
