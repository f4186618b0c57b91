package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	blogadapters "blog_backend/internal/feature/blog/adapters"
	"blog_backend/internal/feature/blog/usecase"
	"blog_backend/internal/platform/cache"
)

// NewBlogRepository creates a BlogRepository implementation.
// If Redis is available, listings are cached in front of the database.
func NewBlogRepository(rdb *redis.Client, db *gorm.DB) usecase.BlogRepository {
	repo := blogadapters.NewBlogGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingBlogRepository(rdb, cache.DefaultBlogTTL, repo, "blogs")
}
