package s0_data

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/pkg/logger"
	"github.com/wonny/nflepa/pkg/redis"
)

// Fetcher loads upstream tables without caching
type Fetcher interface {
	FetchPlays(ctx context.Context, season int) ([]contracts.Play, error)
	FetchSchedule(ctx context.Context, season int) (*contracts.Schedule, error)
	FetchTeams(ctx context.Context) ([]contracts.TeamDescriptor, error)
	ListSeasons(ctx context.Context) ([]int, error)
}

// SeasonCache is a read-through cache over a Fetcher
// ⭐ SSOT: the only shared mutable state in the pipeline
// An entry is either absent or a complete table; failed loads are never stored.
// Cached slices are shared and must be treated as read-only.
type SeasonCache struct {
	fetcher Fetcher
	l2      *redis.Cache
	ttl     time.Duration
	format  string
	logger  *logger.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

var (
	_ contracts.SeasonSource = (*SeasonCache)(nil)
	_ contracts.SeasonLister = (*SeasonCache)(nil)
	_ Fetcher                = (*Client)(nil)
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	L2      bool  `json:"l2"`
}

// NewSeasonCache creates a cache; l2 may be nil or disabled.
// ttl bounds how long a season stays in memory (nflverse republishes nightly).
func NewSeasonCache(fetcher Fetcher, l2 *redis.Cache, ttl time.Duration, format string, log *logger.Logger) *SeasonCache {
	if ttl <= 0 {
		ttl = redis.TTLLong
	}
	return &SeasonCache{
		fetcher: fetcher,
		l2:      l2,
		ttl:     ttl,
		format:  format,
		logger:  log.WithField("module", "season_cache"),
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Plays returns one season of play-by-play
func (c *SeasonCache) Plays(ctx context.Context, season int) ([]contracts.Play, error) {
	return readThrough(ctx, c, redis.SeasonPlaysKey(season, c.format), c.ttl, func(ctx context.Context) ([]contracts.Play, error) {
		return c.fetcher.FetchPlays(ctx, season)
	})
}

// Schedule returns one season's schedule
func (c *SeasonCache) Schedule(ctx context.Context, season int) (*contracts.Schedule, error) {
	return readThrough(ctx, c, redis.ScheduleKey(season), c.ttl, func(ctx context.Context) (*contracts.Schedule, error) {
		return c.fetcher.FetchSchedule(ctx, season)
	})
}

// Teams returns the team descriptor table
func (c *SeasonCache) Teams(ctx context.Context) ([]contracts.TeamDescriptor, error) {
	return readThrough(ctx, c, redis.TeamsKey(), redis.TTLDaily, c.fetcher.FetchTeams)
}

// Seasons returns the seasons with published play-by-play
func (c *SeasonCache) Seasons(ctx context.Context) ([]int, error) {
	return readThrough(ctx, c, redis.SeasonListKey(), redis.TTLShort, c.fetcher.ListSeasons)
}

// Invalidate drops every cached table of a season
func (c *SeasonCache) Invalidate(ctx context.Context, season int) {
	keys := []string{redis.SeasonPlaysKey(season, c.format), redis.ScheduleKey(season)}

	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()

	if err := c.l2.Delete(ctx, keys...); err != nil {
		c.logger.WithError(err).WithField("season", season).Warn("L2 cache delete failed")
	}
}

// Stats returns a snapshot of cache counters
func (c *SeasonCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		L2:      c.l2.Enabled(),
	}
}

func (c *SeasonCache) lookup(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *SeasonCache) store(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// sharedLoadTimeout bounds one upstream load shared by concurrent callers
const sharedLoadTimeout = 5 * time.Minute

// readThrough serves key from memory, then L2, then load.
// Concurrent callers for the same key share one load.
func readThrough[T any](ctx context.Context, c *SeasonCache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return v.(T), nil
	}

	res := c.group.DoChan(key, func() (interface{}, error) {
		// the shared load outlives any single caller's cancellation
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		// A caller that waited on the lock may find the entry already stored
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		c.misses.Add(1)

		var out T
		found, err := c.l2.Get(ctx, key, &out)
		if err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("L2 cache read failed")
		}
		if found {
			c.store(key, out, ttl)
			return out, nil
		}

		out, err = load(ctx)
		if err != nil {
			return nil, err
		}

		c.store(key, out, ttl)
		if err := c.l2.Set(ctx, key, out, ttl); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("L2 cache write failed")
		}
		return out, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
