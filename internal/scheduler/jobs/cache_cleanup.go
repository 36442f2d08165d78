package jobs

import (
	"context"

	"github.com/wonny/fairvalue/pkg/logger"
)

// ExpiringCache drops stale entries. *ratios.MemoryCache satisfies it.
type ExpiringCache interface {
	CleanExpired() int
}

// CacheCleanupJob evicts expired ratio snapshots from the in-memory cache
type CacheCleanupJob struct {
	cache  ExpiringCache
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache ExpiringCache, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "ratio_cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	if count := j.cache.CleanExpired(); count > 0 {
		j.logger.WithField("removed", count).Info("Ratio cache cleanup completed")
	}
	return nil
}
