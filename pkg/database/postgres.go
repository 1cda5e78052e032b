package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/nflepa/pkg/config"
)

// connectTimeout bounds the first round trip made by Open
const connectTimeout = 5 * time.Second

// ErrNotConfigured is returned by Open when DATABASE_URL is empty
var ErrNotConfigured = errors.New("database not configured: DATABASE_URL is empty")

// DB is the snapshot database handle
// ⭐ SSOT: pgx pools are only built in this package
type DB struct {
	Pool *pgxpool.Pool
}

// Open connects to the snapshot database and verifies the connection.
// Returns ErrNotConfigured when persistence is off.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open snapshot pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reach snapshot database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && cfg.MinConns <= cfg.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "nflepa"

	return pc, nil
}

// Close releases the pool; safe on a nil or closed DB
func (db *DB) Close() {
	if db == nil || db.Pool == nil {
		return
	}
	db.Pool.Close()
}

// Health is a point-in-time view of the snapshot database
type Health struct {
	Reachable bool          `json:"reachable"`
	CheckedAt time.Time     `json:"checked_at"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
	Pool      PoolUsage     `json:"pool"`
}

// PoolUsage is the connection count subset shown by `nflepa status`
type PoolUsage struct {
	Total    int32 `json:"total"`
	Idle     int32 `json:"idle"`
	Acquired int32 `json:"acquired"`
	Max      int32 `json:"max"`
}

// Check pings the database and reports pool usage.
// The returned Health is populated even when err is non-nil.
func (db *DB) Check(ctx context.Context) (Health, error) {
	h := Health{CheckedAt: time.Now()}

	start := time.Now()
	err := db.Pool.Ping(ctx)
	h.Latency = time.Since(start)
	if err != nil {
		h.Error = err.Error()
		return h, fmt.Errorf("ping snapshot database: %w", err)
	}

	h.Reachable = true
	h.Pool = db.Usage()
	return h, nil
}

// Usage returns current connection counts
func (db *DB) Usage() PoolUsage {
	s := db.Pool.Stat()
	return PoolUsage{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		Acquired: s.AcquiredConns(),
		Max:      s.MaxConns(),
	}
}
