package ratios

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/logger"
	"github.com/wonny/fairvalue/pkg/redis"
)

// Cache stores per-source metric snapshots.
// *redis.Cache and *MemoryCache both satisfy it.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// MemoryCache is an in-process TTL cache used when Redis is disabled
// ⭐ SSOT: 인메모리 비율 캐싱은 이 구조체에서만
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a cached value. Expired entries are misses.
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(entry.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores a value with TTL
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

// Len returns the number of entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanExpired removes expired entries
func (c *MemoryCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// cachedSource serves a Source through a Cache
type cachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

// WithCache wraps src so each ticker is fetched upstream at most once per ttl.
// Cache failures are logged and fall through to the source.
func WithCache(src Source, cache Cache, ttl time.Duration, log *logger.Logger) Source {
	if cache == nil || ttl <= 0 {
		return src
	}
	return &cachedSource{
		source: src,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"module": "ratios_cache", "source": src.Name()}),
	}
}

func (s *cachedSource) Name() string {
	return s.source.Name()
}

func (s *cachedSource) Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error) {
	key := redis.RatiosKey(s.source.Name(), ticker)

	var cached contracts.TickerMetrics
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Ratio cache read failed")
	}
	if found {
		s.logger.WithField("ticker", ticker).Debug("Ratio cache hit")
		return &cached, nil
	}

	m, err := s.source.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, m, s.ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Ratio cache write failed")
	}
	return m, nil
}
