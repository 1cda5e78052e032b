package redis

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per nflverse table
const (
	TTLShort = 10 * time.Minute // release listings
	TTLLong  = 6 * time.Hour    // play-by-play and schedules; nflverse rebuilds nightly
	TTLDaily = 24 * time.Hour   // team descriptors
)

// SeasonPlaysKey names a season's play-by-play table in a given release format
func SeasonPlaysKey(season int, format string) string {
	return fmt.Sprintf("pbp:%d:%s", season, format)
}

func ScheduleKey(season int) string { return fmt.Sprintf("schedule:%d", season) }
func TeamsKey() string              { return "teams" }
func SeasonListKey() string         { return "seasons" }

// Cache is the L2 store behind the season cache. Values are gzip'd
// JSON since a full season of plays runs to tens of megabytes.
// ⭐ SSOT: cache helpers live here
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a cache whose keys live under prefix
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Enabled reports whether reads and writes reach Redis
func (c *Cache) Enabled() bool {
	return c != nil && c.client.Enabled()
}

func (c *Cache) key(k string) string {
	return c.prefix + ":cache:" + k
}

// Get decodes the entry under key into dest; found is false on a miss
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	if !c.Enabled() {
		return false, nil
	}

	raw, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := decode(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for ttl
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Redis().Set(ctx, c.key(key), raw, ttl).Err()
}

// Delete removes every key in one round trip
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Redis().Del(ctx, full...).Err()
}

func encode(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(value); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, dest interface{}) error {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer zr.Close()
	return json.NewDecoder(zr).Decode(dest)
}
