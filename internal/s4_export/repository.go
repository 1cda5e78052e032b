package s4_export

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/nflepa/internal/contracts"
)

// ErrNoSnapshot is returned by Latest when a season was never persisted
var ErrNoSnapshot = errors.New("no snapshot for season")

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS export_snapshots (
		season       INTEGER PRIMARY KEY,
		run_id       UUID NOT NULL,
		team_count   INTEGER NOT NULL,
		profile_hash TEXT NOT NULL,
		payload      JSONB NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Repository persists export snapshots in Postgres
type Repository struct {
	db *pgxpool.Pool
}

var _ contracts.SnapshotStore = (*Repository)(nil)

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the snapshot table if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create export_snapshots: %w", err)
	}
	return nil
}

// Save upserts the latest snapshot of a season
func (r *Repository) Save(ctx context.Context, s *contracts.Snapshot) error {
	runID, err := uuid.Parse(s.RunID)
	if err != nil {
		return fmt.Errorf("parse run id: %w", err)
	}

	query := `
		INSERT INTO export_snapshots (
			season,
			run_id,
			team_count,
			profile_hash,
			payload,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (season) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			team_count = EXCLUDED.team_count,
			profile_hash = EXCLUDED.profile_hash,
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at
	`

	_, err = r.db.Exec(ctx, query,
		s.Season,
		runID,
		s.TeamCount,
		s.ProfileHash,
		[]byte(s.Payload),
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// Latest returns the persisted snapshot of a season
func (r *Repository) Latest(ctx context.Context, season int) (*contracts.Snapshot, error) {
	query := `
		SELECT
			run_id::text,
			season,
			team_count,
			profile_hash,
			payload,
			created_at
		FROM export_snapshots
		WHERE season = $1
	`

	var (
		s       contracts.Snapshot
		payload []byte
	)
	err := r.db.QueryRow(ctx, query, season).Scan(
		&s.RunID,
		&s.Season,
		&s.TeamCount,
		&s.ProfileHash,
		&payload,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	s.Payload = payload
	return &s, nil
}
