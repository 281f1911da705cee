package services

import (
	"context"

	"item-api/internal/models"
)

// ItemService is the façade handlers use to persist items. It never validates
// field contents; callers pass inputs that already went through the verifier.
//
// The bool result of GetByID and Update is the absent-marker: false with a nil
// error means no such row. A non-nil error is always a storage fault.
type ItemService interface {
	ListAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (models.Item, bool, error)
	Create(ctx context.Context, in models.ItemInput) (models.Item, error)
	Update(ctx context.Context, id int64, in models.ItemInput) (models.Item, bool, error)
	Delete(ctx context.Context, id int64) error
}
