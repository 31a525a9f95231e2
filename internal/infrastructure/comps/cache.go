package comps

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"dealflow/internal/domain/service/valuation"
	"dealflow/internal/domain/value"
	"dealflow/pkg/logx"
)

const keyPrefix = "dealflow:comps:"

// Cache puts a two level cache in front of a CompsProvider: an in-process
// go-cache and, when configured, a Redis instance shared by all replicas.
// Provider errors are never cached.
type Cache struct {
	next  valuation.CompsProvider
	local *cache.Cache
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(next valuation.CompsProvider, ttl time.Duration) *Cache {
	return &Cache{
		next:  next,
		local: cache.New(ttl, 2*ttl), //nolint:mnd
		ttl:   ttl,
	}
}

func (c *Cache) WithRedis(client *redis.Client) *Cache {
	c.redis = client
	return c
}

func (c *Cache) GetComps(ctx context.Context, q value.CompsQuery) (*value.CompsSnapshot, error) {
	key := cacheKey(q)

	if v, ok := c.local.Get(key); ok {
		if snapshot, ok := v.(*value.CompsSnapshot); ok {
			return snapshot, nil
		}
	}

	if snapshot := c.fromRedis(ctx, key); snapshot != nil {
		c.local.Set(key, snapshot, cache.DefaultExpiration)
		return snapshot, nil
	}

	snapshot, err := c.next.GetComps(ctx, q)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	c.local.Set(key, snapshot, cache.DefaultExpiration)
	c.toRedis(ctx, key, snapshot)

	return snapshot, nil
}

func (c *Cache) fromRedis(ctx context.Context, key string) *value.CompsSnapshot {
	if c.redis == nil {
		return nil
	}

	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger(ctx).Warn("comps cache read failed", slog.String("key", key), logx.Error(err))
		}
		return nil
	}

	var snapshot value.CompsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		logger(ctx).Warn("comps cache entry is corrupt", slog.String("key", key), logx.Error(err))
		return nil
	}

	return &snapshot
}

func (c *Cache) toRedis(ctx context.Context, key string, snapshot *value.CompsSnapshot) {
	if c.redis == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		logger(ctx).Warn("comps cache encode failed", slog.String("key", key), logx.Error(err))
		return
	}

	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger(ctx).Warn("comps cache write failed", slog.String("key", key), logx.Error(err))
	}
}

// cacheKey normalizes the query so that cosmetic differences in the
// address share one entry.
func cacheKey(q value.CompsQuery) string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}

	return keyPrefix + norm(q.Address) + "|" + norm(q.City) + "|" + norm(q.State) + "|" + norm(q.Zip) + "|" +
		queryParams(value.CompsQuery{Beds: q.Beds, Baths: q.Baths, Sqft: q.Sqft}).Encode()
}
