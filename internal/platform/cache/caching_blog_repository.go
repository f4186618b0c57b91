// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"blog_backend/internal/feature/blog/domain/entity"
	"blog_backend/internal/feature/blog/usecase"
)

const (
	// DefaultBlogTTL is how long a cached listing stays valid.
	DefaultBlogTTL = 5 * time.Minute

	defaultNamespace = "blogs"
)

// storeIfCurrent sets KEYS[2] only while the generation in KEYS[1] still
// equals ARGV[1]. A write that lands during a load bumps the generation,
// so the stale listing is never stored.
const storeIfCurrent = `
if (redis.call('GET', KEYS[1]) or '0') == ARGV[1] then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
end
return 0
`

// CachingBlogRepository decorates a BlogRepository with Redis caching of the
// listing reads. Every write drops all cached listings.
type CachingBlogRepository struct {
	inner     usecase.BlogRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.BlogRepository = (*CachingBlogRepository)(nil)

// NewCachingBlogRepository decorates inner with Redis caching.
// If ttl is 0 it defaults to DefaultBlogTTL. If namespace is empty it uses "blogs".
// A nil rdb bypasses the cache entirely.
func NewCachingBlogRepository(rdb *redis.Client, ttl time.Duration, inner usecase.BlogRepository, namespace string) *CachingBlogRepository {
	if ttl <= 0 {
		ttl = DefaultBlogTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingBlogRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts through to the inner repository and invalidates listings.
func (c *CachingBlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	if err := c.inner.Create(ctx, b); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update writes through to the inner repository and invalidates listings.
func (c *CachingBlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	if err := c.inner.Update(ctx, b); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID is never cached.
func (c *CachingBlogRepository) FindByID(ctx context.Context, id uint) (*entity.Blog, error) {
	return c.inner.FindByID(ctx, id)
}

// ListLatest serves the public listing from cache when possible.
func (c *CachingBlogRepository) ListLatest(ctx context.Context) ([]entity.Blog, error) {
	return c.cached(ctx, c.latestKey(), func() ([]entity.Blog, error) {
		return c.inner.ListLatest(ctx)
	})
}

// ListByAuthor serves an author's listing from cache when possible.
func (c *CachingBlogRepository) ListByAuthor(ctx context.Context, authorID uint) ([]entity.Blog, error) {
	return c.cached(ctx, c.authorKey(authorID), func() ([]entity.Blog, error) {
		return c.inner.ListByAuthor(ctx, authorID)
	})
}

func (c *CachingBlogRepository) cached(ctx context.Context, key string, load func() ([]entity.Blog, error)) ([]entity.Blog, error) {
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Blog
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Remember the generation before reading the database
	gen, err := c.rdb.Get(ctx, c.genKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		slog.Warn("blog cache generation read failed", "key", c.genKey(), "error", err)
		return load()
	}

	// 3) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 4) Store in cache unless a write happened meanwhile (best effort)
	if b, err := json.Marshal(out); err == nil {
		stored, err := c.rdb.Eval(ctx, storeIfCurrent, []string{c.genKey(), key}, gen, string(b), c.ttl.Milliseconds()).Int64()
		switch {
		case err != nil:
			slog.Warn("blog cache store failed", "key", key, "error", err)
		case stored == 0:
			slog.Debug("blog cache store skipped, listing changed during load", "key", key)
		}
	}
	return out, nil
}

// latestKey is the key of the public listing, "blogs:latest" by default.
func (c *CachingBlogRepository) latestKey() string {
	return c.namespace + ":latest"
}

func (c *CachingBlogRepository) authorKey(authorID uint) string {
	return fmt.Sprintf("%s:author:%d", c.namespace, authorID)
}

// genKey counts invalidations. It never expires.
func (c *CachingBlogRepository) genKey() string {
	return c.namespace + ":gen"
}

// invalidate bumps the generation and drops every listing key. Failures are
// logged and swallowed.
func (c *CachingBlogRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		slog.Warn("blog cache generation bump failed", "key", c.genKey(), "error", err)
	}
	if err := c.rdb.Del(ctx, c.latestKey()).Err(); err != nil {
		slog.Warn("blog cache invalidation failed", "key", c.latestKey(), "error", err)
	}
	if err := c.deleteByPattern(ctx, c.namespace+":author:*"); err != nil {
		slog.Warn("blog cache invalidation failed", "pattern", c.namespace+":author:*", "error", err)
	}
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingBlogRepository) deleteByPattern(ctx context.Context, pattern string) error {
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
