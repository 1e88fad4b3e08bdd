// Package cache provides caching implementations for repository interfaces
// and the in-process rate-limited fetch cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"arb_backend/internal/feature/history/domain/entity"
	"arb_backend/internal/feature/history/usecase"
)

// CachingSpreadRepository decorates a SpreadRepository with Redis caching of
// range queries. It implements the decorator pattern, transparently adding
// caching without modifying the underlying repository.
//
// Only FindRange is cached: the accumulator's FindByDateRoute read must
// always see the latest persisted statistics.
type CachingSpreadRepository struct {
	inner     usecase.SpreadRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SpreadRepository = (*CachingSpreadRepository)(nil)

// NewCachingSpreadRepository decorates a SpreadRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "spreads".
func NewCachingSpreadRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SpreadRepository, namespace string) *CachingSpreadRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "spreads"
	}
	return &CachingSpreadRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

// FindByDateRoute always reads through to the underlying repository.
func (c *CachingSpreadRepository) FindByDateRoute(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error) {
	return c.inner.FindByDateRoute(ctx, date, route)
}

// Save upserts the record and invalidates cached range queries.
func (c *CachingSpreadRepository) Save(ctx context.Context, rec entity.DailySpreadRecord) error {
	if err := c.inner.Save(ctx, rec); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: don't fail the save if cache invalidation fails
	_ = c.deleteByPattern(ctx, c.namespace+":range:*")
	return nil
}

// FindRange retrieves records, checking cache first then falling back to the database.
func (c *CachingSpreadRepository) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindRange(ctx, from, to)
	}

	key := c.rangeKey(from, to)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.DailySpreadRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// rangeKey generates a cache key for a specific range query.
func (c *CachingSpreadRepository) rangeKey(from, to time.Time) string {
	return fmt.Sprintf("%s:range:%s:%s",
		c.namespace,
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSpreadRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
