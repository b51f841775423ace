package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// ErrCacheMiss is returned by a Cache when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key/value store backing CachedCustomerRepository
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// redisCache implements Cache using Redis
type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a Redis client as a Cache
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

const customerVersionKey = "customers:version"

// cachedCustomerRepository caches List pages under a generation number.
// Any write bumps the generation so stale pages are never served again.
type cachedCustomerRepository struct {
	next   CustomerRepository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedCustomerRepository decorates next with a page cache
func NewCachedCustomerRepository(next CustomerRepository, cache Cache, ttl time.Duration, logger *slog.Logger) CustomerRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &cachedCustomerRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

// List serves a page from the cache, falling back to the API.
// Cache failures are logged and never fail the call.
func (r *cachedCustomerRepository) List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error) {
	models.ValidateAndSetDefaults(&params)

	version, err := r.version(ctx)
	if err != nil {
		r.logger.Warn("customer cache unavailable", slog.String("error", err.Error()))
		return r.next.List(ctx, params)
	}

	key := fmt.Sprintf("customers:v%d:%d:%d:%s:%s", version, params.Page, params.PageSize, params.Sort, params.SearchTerm)

	if data, err := r.cache.Get(ctx, key); err == nil {
		page := &models.CustomerPage{}
		if err := json.Unmarshal(data, page); err == nil {
			r.logger.Debug("customer page served from cache", slog.String("key", key))
			return page, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("failed to read customer cache",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	page, err := r.next.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn("failed to write customer cache",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return page, nil
}

func (r *cachedCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerRecord, error) {
	return r.next.GetByID(ctx, id)
}

func (r *cachedCustomerRepository) Create(ctx context.Context, customer *models.CustomerRecord) (*models.CustomerRecord, error) {
	saved, err := r.next.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return saved, nil
}

func (r *cachedCustomerRepository) Update(ctx context.Context, id uuid.UUID, customer *models.CustomerRecord) (*models.CustomerRecord, error) {
	saved, err := r.next.Update(ctx, id, customer)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return saved, nil
}

func (r *cachedCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedCustomerRepository) version(ctx context.Context) (int64, error) {
	data, err := r.cache.Get(ctx, customerVersionKey)
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v int64
	if _, err := fmt.Sscan(string(data), &v); err != nil {
		return 0, nil
	}
	return v, nil
}

func (r *cachedCustomerRepository) invalidate(ctx context.Context) {
	if _, err := r.cache.Incr(ctx, customerVersionKey); err != nil {
		r.logger.Warn("failed to invalidate customer cache", slog.String("error", err.Error()))
	}
}
