package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/fairvalue/pkg/config"
)

// Connection states reported by Status
const (
	StatusDisabled    = "disabled"
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// Client wraps the Redis connection.
// A disabled Client is valid; Cache and RateLimiter degrade to no-ops on it.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb *redis.Client
}

// New connects when cfg.Redis.Enabled and fails fast if the server is unreachable
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}

	return &Client{rdb: rdb}, nil
}

// Enabled reports whether a connection exists
func (c *Client) Enabled() bool {
	return c.rdb != nil
}

// Ping checks the connection; always nil when disabled
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Status is one of StatusDisabled, StatusOK or StatusUnavailable
func (c *Client) Status(ctx context.Context) string {
	if !c.Enabled() {
		return StatusDisabled
	}
	if err := c.Ping(ctx); err != nil {
		return StatusUnavailable
	}
	return StatusOK
}

func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Redis returns the underlying client, nil when disabled
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// joinKey builds "prefix:kind:name" keys
func joinKey(parts ...string) string {
	return strings.Join(parts, ":")
}
