package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Empty(t, client.Addr())
	assert.Error(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())

	fallback := Disabled()
	assert.False(t, fallback.Enabled())
	assert.Nil(t, fallback.Redis())
	assert.NoError(t, fallback.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	d, err := limiter.Allow(context.Background(), NFLVerseRateLimit)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, NFLVerseRateLimit.Limit, d.Remaining)
	assert.Zero(t, d.RetryAfter)

	assert.NoError(t, limiter.Wait(context.Background(), NFLVerseRateLimit))
}

func TestRateLimiter_WindowKey(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "nflepa")
	cfg := RateLimitConfig{Key: "nflverse", Limit: 2, Window: time.Minute}

	start := time.Date(2026, 9, 8, 12, 0, 5, 0, time.UTC)
	same := start.Add(30 * time.Second)
	next := start.Add(time.Minute)

	assert.Equal(t, limiter.windowKey(cfg, start), limiter.windowKey(cfg, same))
	assert.NotEqual(t, limiter.windowKey(cfg, start), limiter.windowKey(cfg, next))
	assert.Contains(t, limiter.windowKey(cfg, start), "nflepa:ratelimit:nflverse:")
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	assert.False(t, cache.Enabled())

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "key", "other"))
}

func TestCodec(t *testing.T) {
	type row struct {
		GameID string  `json:"game_id"`
		EPA    float64 `json:"epa"`
	}
	in := []row{{"2023_01_DET_KC", 0.42}, {"2023_01_DET_KC", -1.1}}

	raw, err := encode(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "gzip magic")

	var out []row
	require.NoError(t, decode(raw, &out))
	assert.Equal(t, in, out)

	assert.Error(t, decode([]byte("{}"), &out), "plain JSON is not accepted")
}

func TestCache_NilSafe(t *testing.T) {
	var cache *Cache
	assert.False(t, cache.Enabled())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "SeasonPlaysKey",
			fn:       func() string { return SeasonPlaysKey(2023, "csv") },
			expected: "pbp:2023:csv",
		},
		{
			name:     "ScheduleKey",
			fn:       func() string { return ScheduleKey(2024) },
			expected: "schedule:2024",
		},
		{
			name:     "TeamsKey",
			fn:       TeamsKey,
			expected: "teams",
		},
		{
			name:     "SeasonListKey",
			fn:       SeasonListKey,
			expected: "seasons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fn())
		})
	}
}
