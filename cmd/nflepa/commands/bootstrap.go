package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/internal/s0_data"
	"github.com/wonny/nflepa/internal/s4_export"
	"github.com/wonny/nflepa/pkg/config"
	"github.com/wonny/nflepa/pkg/database"
	"github.com/wonny/nflepa/pkg/httputil"
	"github.com/wonny/nflepa/pkg/logger"
	"github.com/wonny/nflepa/pkg/redis"
)

// dbMode controls whether a command opens the snapshot database
type dbMode int

const (
	dbOff      dbMode = iota // never connect
	dbOptional               // connect when DATABASE_URL is set, warn on failure
	dbRequired               // fail when unset or unreachable
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	profiles *pipelineconfig.Config
	client   *s0_data.Client
	source   *s0_data.SeasonCache
	redis    *redis.Client
	db       *database.DB
	store    contracts.SnapshotStore // nil when persistence is off
}

// bootstrap loads configuration and wires the pipeline
// ⭐ SSOT: dependency wiring for every command happens here
func bootstrap(ctx context.Context, mode dbMode) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if pipelineConfig != "" {
		cfg.PipelineConfig = pipelineConfig
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Filter profiles
	profiles, err := pipelineconfig.LoadOrDefault(cfg.PipelineConfig)
	if err != nil {
		return nil, fmt.Errorf("load pipeline config: %w", err)
	}
	for _, w := range pipelineconfig.Warn(profiles) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	a := &app{cfg: cfg, log: log, profiles: profiles}

	// 4. Redis (optional L2 cache and shared rate limit)
	a.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing with in-memory cache only")
		a.redis = redis.Disabled()
	}

	// 5. HTTP client and nflverse client
	httpClient := httputil.New(cfg, log)
	if a.redis.Enabled() {
		httpClient.WithSharedLimit(redis.NewRateLimiter(a.redis, "nflepa"), redis.NFLVerseRateLimit)
	}
	a.client = s0_data.NewClient(httpClient, cfg, log)

	// 6. Season cache
	l2 := redis.NewCache(a.redis, "nflepa")
	a.source = s0_data.NewSeasonCache(a.client, l2, cfg.Redis.CacheTTL, cfg.NFLVerse.PBPFormat, log)

	// 7. Snapshot store
	if err := a.openStore(ctx, mode); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) openStore(ctx context.Context, mode dbMode) error {
	if mode == dbOff {
		return nil
	}

	db, err := database.Open(ctx, a.cfg.Database)
	if err != nil {
		if mode == dbOptional {
			if !errors.Is(err, database.ErrNotConfigured) {
				a.log.WithError(err).Warn("Database unavailable, snapshots disabled")
			}
			return nil
		}
		return fmt.Errorf("connect to database: %w", err)
	}

	repo := s4_export.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		if mode == dbOptional {
			a.log.WithError(err).Warn("Snapshot schema unavailable, snapshots disabled")
			return nil
		}
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}

	a.db = db
	a.store = repo
	a.log.Info("Connected to database")
	return nil
}

// Close releases the Redis and database connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// seasonOrDefault returns the flag value, or SEASON from config when unset
func (a *app) seasonOrDefault(season int) int {
	if season > 0 {
		return season
	}
	return a.cfg.Season
}
