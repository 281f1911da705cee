package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"item-api/internal/metrics"
	"item-api/internal/models"
	"item-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const driverName = "postgres"

// ItemRepo implements the storage.ItemRepository interface using PostgreSQL.
type ItemRepo struct {
	db Querier
}

// NewItemRepo creates a new ItemRepo. Pass a *pgxpool.Pool in production.
func NewItemRepo(db Querier) *ItemRepo {
	return &ItemRepo{db: db}
}

// Compile-time check to ensure ItemRepo implements ItemRepository
var _ storage.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) GetAll(ctx context.Context) (items []models.Item, err error) {
	defer metrics.ObserveStore(driverName, "get_all", time.Now(), &err)

	query := `SELECT id, name, price FROM items ORDER BY id ASC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		return nil, fmt.Errorf("scanning items: %w", err)
	}

	// Callers get [] rather than null for an empty table.
	if items == nil {
		items = []models.Item{}
	}

	return items, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "get_by_id", time.Now(), &err)

	query := `SELECT id, name, price FROM items WHERE id = $1;`
	row := r.db.QueryRow(ctx, query, id)

	var item models.Item
	if err = row.Scan(&item.ID, &item.Name, &item.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item %d: %w", id, err)
	}
	return &item, nil
}

func (r *ItemRepo) Create(ctx context.Context, in models.ItemInput) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "create", time.Now(), &err)

	query := `INSERT INTO items (name, price) VALUES ($1, $2) RETURNING id, name, price;`
	row := r.db.QueryRow(ctx, query, in.Name, in.Price)

	var item models.Item
	if err = row.Scan(&item.ID, &item.Name, &item.Price); err != nil {
		return nil, mapWriteError("creating item", err)
	}
	return &item, nil
}

func (r *ItemRepo) Update(ctx context.Context, id int64, in models.ItemInput) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "update", time.Now(), &err)

	query := `UPDATE items SET name = $1, price = $2 WHERE id = $3 RETURNING id, name, price;`
	row := r.db.QueryRow(ctx, query, in.Name, in.Price, id)

	var item models.Item
	if err = row.Scan(&item.ID, &item.Name, &item.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, mapWriteError(fmt.Sprintf("updating item %d", id), err)
	}
	return &item, nil
}

func (r *ItemRepo) Delete(ctx context.Context, id int64) (err error) {
	defer metrics.ObserveStore(driverName, "delete", time.Now(), &err)

	query := `DELETE FROM items WHERE id = $1;`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// mapWriteError tags integrity constraint violations (SQLSTATE class 23) with
// storage.ErrConflict while keeping the driver error in the chain.
func mapWriteError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%s: %w: %w", operation, storage.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
