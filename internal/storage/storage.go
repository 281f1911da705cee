package storage

import (
	"context"

	"item-api/internal/models"
)

// ItemRepository defines the interface for item data operations. Every method
// is a single store statement.
type ItemRepository interface {
	GetAll(ctx context.Context) ([]models.Item, error)
	// GetByID returns ErrNotFound when no row has the given id.
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	// Create inserts a row and returns it with the store-assigned id.
	Create(ctx context.Context, in models.ItemInput) (*models.Item, error)
	// Update overwrites name and price. It returns ErrNotFound when no row was
	// touched and never inserts.
	Update(ctx context.Context, id int64, in models.ItemInput) (*models.Item, error)
	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, id int64) error
}
