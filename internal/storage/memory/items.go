// Package memory implements storage.ItemRepository in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"item-api/internal/metrics"
	"item-api/internal/models"
	"item-api/internal/storage"
)

const driverName = "memory"

// ItemRepo keeps items in a map guarded by a RWMutex. IDs come from a counter
// that only moves forward, so a deleted id is never handed out again.
type ItemRepo struct {
	mu     sync.RWMutex
	items  map[int64]models.Item
	nextID int64
}

// NewItemRepo creates an empty ItemRepo.
func NewItemRepo() *ItemRepo {
	return &ItemRepo{
		items:  make(map[int64]models.Item),
		nextID: 1,
	}
}

var _ storage.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) GetAll(ctx context.Context) (_ []models.Item, err error) {
	defer metrics.ObserveStore(driverName, "get_all", time.Now(), &err)

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "get_by_id", time.Now(), &err)

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &item, nil
}

func (r *ItemRepo) Create(ctx context.Context, in models.ItemInput) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "create", time.Now(), &err)

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item := in.ToItem(r.nextID)
	r.nextID++
	r.items[item.ID] = item

	return &item, nil
}

func (r *ItemRepo) Update(ctx context.Context, id int64, in models.ItemInput) (_ *models.Item, err error) {
	defer metrics.ObserveStore(driverName, "update", time.Now(), &err)

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil, storage.ErrNotFound
	}

	item := in.ToItem(id)
	r.items[id] = item

	return &item, nil
}

func (r *ItemRepo) Delete(ctx context.Context, id int64) (err error) {
	defer metrics.ObserveStore(driverName, "delete", time.Now(), &err)

	if err = ctx.Err(); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.items, id)

	return nil
}

// Len reports how many items are stored.
func (r *ItemRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
