package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{
		Redis: config.RedisConfig{Enabled: false},
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, StatusDisabled, client.Status(context.Background()))
	assert.NoError(t, client.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := New(&config.Config{
		Redis: config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	// When Redis is disabled, all requests should be allowed
	cfg := FMPRateLimit(5)
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
}

func TestBoundLimiter_Disabled(t *testing.T) {
	bound := NewRateLimiter(disabledClient(t), "test").Bind(YahooRateLimit)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, bound.Wait(ctx))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, result)

	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestRatiosKey(t *testing.T) {
	assert.Equal(t, "ratios:fmp:AAPL", RatiosKey("fmp", "aapl"))
	assert.Equal(t, "ratios:investing:GOOGL", RatiosKey("investing", "GOOGL"))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "fairvalue:cache:ratios:fmp:AAPL", joinKey("fairvalue", "cache", RatiosKey("fmp", "AAPL")))
}

func TestFMPRateLimit(t *testing.T) {
	cfg := FMPRateLimit(7)
	assert.Equal(t, "fmp", cfg.Key)
	assert.Equal(t, 7, cfg.Limit)
	assert.Equal(t, time.Second, cfg.Window)
}
