// Package cache provides a Redis read-through cache in front of an
// ItemRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"item-api/internal/metrics"
	"item-api/internal/models"
	"item-api/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultPrefix = "item:"

var errStaleRefill = errors.New("entry evicted while loading")

// ItemRepo caches point lookups of the wrapped repository. Writes go straight
// to the wrapped repository; create, update and delete evict the cached entry
// after the write. Redis failures are logged and never turn into request
// errors.
//
// Every eviction bumps a per-id generation counter. A miss only refills the
// entry when the generation it saw before reading the store is still current,
// so a lookup racing with a write cannot put the old row back.
type ItemRepo struct {
	next   storage.ItemRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logrus.FieldLogger
}

// Option configures an ItemRepo.
type Option func(*ItemRepo)

// WithNamespace scopes every key under ns. Stores whose ids restart with the
// process (the memory driver) need a namespace unique to that process.
func WithNamespace(ns string) Option {
	return func(r *ItemRepo) {
		if ns != "" {
			r.prefix = DefaultPrefix + ns + ":"
		}
	}
}

// NewItemRepo wraps next with a cache stored in client.
func NewItemRepo(next storage.ItemRepository, client *redis.Client, ttl time.Duration, log logrus.FieldLogger, opts ...Option) *ItemRepo {
	r := &ItemRepo{
		next:   next,
		client: client,
		prefix: DefaultPrefix,
		ttl:    ttl,
		log:    log.WithField("component", "item_cache"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ storage.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

func (r *ItemRepo) genKey(id int64) string {
	return r.key(id) + ":gen"
}

func (r *ItemRepo) GetAll(ctx context.Context) ([]models.Item, error) {
	return r.next.GetAll(ctx)
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	key := r.key(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var item models.Item
		if err := json.Unmarshal(data, &item); err == nil {
			metrics.CacheOperations.WithLabelValues("hit").Inc()
			return &item, nil
		}
		r.log.WithField("key", key).Warn("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		r.log.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	metrics.CacheOperations.WithLabelValues("miss").Inc()

	gen, genErr := r.generation(ctx, id)

	item, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		r.refill(ctx, item, gen)
	}
	return item, nil
}

func (r *ItemRepo) Create(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	item, err := r.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, item.ID)
	return item, nil
}

func (r *ItemRepo) Update(ctx context.Context, id int64, in models.ItemInput) (*models.Item, error) {
	item, err := r.next.Update(ctx, id, in)
	r.evict(ctx, id)
	return item, err
}

func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	r.evict(ctx, id)
	return err
}

// generation returns the eviction counter for id; 0 when it was never evicted.
func (r *ItemRepo) generation(ctx context.Context, id int64) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey(id)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.WithError(err).WithField("id", id).Warn("cache generation read failed")
		return 0, err
	}
	return gen, nil
}

// refill stores item unless the entry was evicted after gen was read.
func (r *ItemRepo) refill(ctx context.Context, item *models.Item, gen int64) {
	data, err := json.Marshal(item)
	if err != nil {
		r.log.WithError(err).Warn("encoding item for cache")
		return
	}

	genKey := r.genKey(item.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleRefill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(item.ID), data, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRefill), errors.Is(err, redis.TxFailedErr):
		r.log.WithField("id", item.ID).Debug("skipping cache refill after concurrent write")
	default:
		r.log.WithError(err).WithField("id", item.ID).Warn("cache write failed")
	}
}

// evict drops the entry and bumps its generation in one transaction.
func (r *ItemRepo) evict(ctx context.Context, id int64) {
	genKey := r.genKey(id)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		if r.ttl > 0 {
			pipe.Expire(ctx, genKey, 2*r.ttl)
		}
		pipe.Del(ctx, r.key(id))
		return nil
	})
	if err != nil {
		r.log.WithError(err).WithField("id", id).Warn("cache eviction failed")
	}
}
