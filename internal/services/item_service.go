package services

import (
	"context"
	"errors"
	"fmt"

	"item-api/internal/models"
	"item-api/internal/storage"

	"github.com/sirupsen/logrus"
)

type itemService struct {
	repo storage.ItemRepository
	log  logrus.FieldLogger
}

// NewItemService creates a new instance of ItemService.
func NewItemService(repo storage.ItemRepository, log logrus.FieldLogger) ItemService {
	return &itemService{
		repo: repo,
		log:  log.WithField("component", "item_service"),
	}
}

func (s *itemService) ListAll(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, MapRepoError(s.log, err, "listing items")
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *itemService) GetByID(ctx context.Context, id int64) (models.Item, bool, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Item{}, false, nil
		}
		return models.Item{}, false, MapRepoError(s.log.WithField("id", id), err, fmt.Sprintf("getting item %d", id))
	}
	return *item, true, nil
}

func (s *itemService) Create(ctx context.Context, in models.ItemInput) (models.Item, error) {
	item, err := s.repo.Create(ctx, in)
	if err != nil {
		return models.Item{}, MapRepoError(s.log, err, "creating item")
	}
	return *item, nil
}

func (s *itemService) Update(ctx context.Context, id int64, in models.ItemInput) (models.Item, bool, error) {
	if _, found, err := s.GetByID(ctx, id); err != nil || !found {
		return models.Item{}, false, err
	}

	// The row can disappear between the check and the write; that is reported
	// as absent too.
	item, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithField("id", id).Warn("ItemService: item deleted during update")
			return models.Item{}, false, nil
		}
		return models.Item{}, false, MapRepoError(s.log.WithField("id", id), err, fmt.Sprintf("updating item %d", id))
	}
	return *item, true, nil
}

// Delete removes the row. Callers check existence first; a missing row here
// means it vanished concurrently and is returned as an error wrapping
// storage.ErrNotFound.
func (s *itemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return MapRepoError(s.log.WithField("id", id), err, fmt.Sprintf("deleting item %d", id))
	}
	return nil
}
