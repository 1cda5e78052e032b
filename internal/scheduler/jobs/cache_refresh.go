package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/pkg/logger"
)

// SeasonCache is the cache surface the refresh job needs
type SeasonCache interface {
	contracts.SeasonSource
	Invalidate(ctx context.Context, season int)
}

// CacheRefreshJob drops and reloads the current season after nflverse republishes
type CacheRefreshJob struct {
	cache    SeasonCache
	season   int
	schedule string
	logger   *logger.Logger
}

// NewCacheRefreshJob creates a new cache refresh job
func NewCacheRefreshJob(cache SeasonCache, season int, schedule string, log *logger.Logger) *CacheRefreshJob {
	return &CacheRefreshJob{
		cache:    cache,
		season:   season,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheRefreshJob) Name() string {
	return "season_cache_refresh"
}

// Schedule returns the cron schedule
func (j *CacheRefreshJob) Schedule() string {
	return j.schedule
}

// Run invalidates the season and warms it again
func (j *CacheRefreshJob) Run(ctx context.Context) error {
	j.cache.Invalidate(ctx, j.season)

	schedule, err := j.cache.Schedule(ctx, j.season)
	if err != nil {
		return fmt.Errorf("warm schedule %d: %w", j.season, err)
	}

	plays, err := j.cache.Plays(ctx, j.season)
	if err != nil {
		return fmt.Errorf("warm play-by-play %d: %w", j.season, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"season": j.season,
		"games":  len(schedule.Games),
		"plays":  len(plays),
	}).Info("Season cache refreshed")

	return nil
}
