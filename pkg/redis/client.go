package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/nflepa/pkg/config"
)

const dialCheckTimeout = 5 * time.Second

// Client is the optional Redis backend behind the season cache and the
// shared nflverse request budget. A disabled Client turns every caller
// into a no-op.
// ⭐ SSOT: the Redis connection is only managed here
type Client struct {
	rdb  *redis.Client
	addr string
}

// New connects to Redis when REDIS_ENABLED is set.
// A disabled config yields a disabled client and no error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	c := &Client{rdb: rdb, addr: addr}
	pingCtx, cancel := context.WithTimeout(ctx, dialCheckTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return c, nil
}

// Disabled returns a client with no backing connection
func Disabled() *Client {
	return &Client{}
}

// Enabled reports whether a connection is held
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Addr is host:port, empty when disabled
func (c *Client) Addr() string {
	if c == nil {
		return ""
	}
	return c.addr
}

// Ping round-trips to the server
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return fmt.Errorf("redis disabled")
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", c.addr, err)
	}
	return nil
}

// Close releases the connection
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Redis exposes the go-redis client to the cache and limiter
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}
