package contracts

import "context"

// SeasonSource loads season-scoped upstream tables (S0)
// ⭐ SSOT: S0 loader interface
type SeasonSource interface {
	Plays(ctx context.Context, season int) ([]Play, error)
	Schedule(ctx context.Context, season int) (*Schedule, error)
	Teams(ctx context.Context) ([]TeamDescriptor, error)
}

// SeasonLister enumerates seasons with published play-by-play
type SeasonLister interface {
	Seasons(ctx context.Context) ([]int, error)
}

// SnapshotStore persists export runs
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Latest(ctx context.Context, season int) (*Snapshot, error)
}
