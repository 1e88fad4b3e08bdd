package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	historyadapters "arb_backend/internal/feature/history/adapters"
	historyusecase "arb_backend/internal/feature/history/usecase"
	"arb_backend/internal/platform/cache"
)

// spreadCacheTTL bounds how stale a cached historical series may get.
// Invalidation on upsert is best effort, so the TTL is kept short.
const spreadCacheTTL = time.Minute

// NewSpreadRepository creates the daily spread repository. If Redis is
// available, range queries are served through the caching decorator;
// otherwise the gorm repository is used directly.
func NewSpreadRepository(rdb *redis.Client, db *gorm.DB) historyusecase.SpreadRepository {
	repo := historyadapters.NewSpreadRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingSpreadRepository(rdb, spreadCacheTTL, repo, "spreads")
}
