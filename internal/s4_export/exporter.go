package s4_export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/internal/s1_filter"
	"github.com/wonny/nflepa/internal/s2_aggregate"
	"github.com/wonny/nflepa/pkg/logger"
)

// ErrNoPlays is returned when nothing survives the batch filter
var ErrNoPlays = errors.New("No data found after filtering.")

// Options controls one export run
type Options struct {
	Season  int
	Path    string
	Persist bool // also save a snapshot when a store is configured
}

// Result describes a finished export run
type Result struct {
	RunID     string         `json:"run_id"`
	Season    int            `json:"season"`
	Path      string         `json:"path"`
	Teams     int            `json:"teams"`
	Plays     int            `json:"plays"`
	Excluded  map[string]int `json:"excluded"`
	Bytes     int            `json:"bytes"`
	Persisted bool           `json:"persisted"`
	Duration  time.Duration  `json:"duration"`
}

// Exporter runs the season batch export
// ⭐ SSOT: S0 → S1 → S2 → team_stats.json
type Exporter struct {
	source      contracts.SeasonSource
	store       contracts.SnapshotStore // nil when persistence is off
	profile     pipelineconfig.FilterProfile
	profileHash string
	logger      *logger.Logger
}

// NewExporter creates an exporter; store may be nil
func NewExporter(source contracts.SeasonSource, store contracts.SnapshotStore, cfg *pipelineconfig.Config, log *logger.Logger) *Exporter {
	hash, err := pipelineconfig.Hash(cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to hash pipeline profiles")
	}

	return &Exporter{
		source:      source,
		store:       store,
		profile:     cfg.ForMode(contracts.ModeBatch),
		profileHash: hash,
		logger:      log.WithField("module", "export"),
	}
}

// Build computes the export document for a season without writing it
func (e *Exporter) Build(ctx context.Context, season int) (contracts.ExportDocument, *contracts.FilteredPlays, error) {
	plays, err := e.source.Plays(ctx, season)
	if err != nil {
		return nil, nil, fmt.Errorf("Error loading data: %w", err)
	}

	filtered := s1_filter.Filter(plays, e.profile)
	if filtered.Count() == 0 {
		return nil, filtered, ErrNoPlays
	}

	offense := s2_aggregate.TeamStats(filtered.Plays, contracts.SideOffense)
	defense := s2_aggregate.TeamStats(filtered.Plays, contracts.SideDefense)

	return BuildDocument(offense, defense), filtered, nil
}

// Export builds the season document and replaces the export file.
// Nothing is written when loading fails or no plays survive filtering.
func (e *Exporter) Export(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	log := e.logger.WithFields(map[string]interface{}{
		"season":       opts.Season,
		"profile_hash": e.profileHash,
	})
	log.Info("Starting export")

	doc, filtered, err := e.Build(ctx, opts.Season)
	if err != nil {
		return nil, err
	}

	data, err := Marshal(doc)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(opts.Path, data); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Season:   opts.Season,
		Path:     opts.Path,
		Teams:    len(doc),
		Plays:    filtered.Count(),
		Excluded: filtered.Excluded,
		Bytes:    len(data),
	}

	if opts.Persist {
		if err := e.persist(ctx, result, data); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	log.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"path":     result.Path,
		"teams":    result.Teams,
		"plays":    result.Plays,
		"excluded": filtered.ExcludedCount(),
		"duration": result.Duration.String(),
	}).Info("Export completed")

	return result, nil
}

func (e *Exporter) persist(ctx context.Context, result *Result, payload []byte) error {
	if e.store == nil {
		e.logger.Warn("Snapshot persistence requested but no database is configured")
		return nil
	}

	snapshot := &contracts.Snapshot{
		RunID:       result.RunID,
		Season:      result.Season,
		TeamCount:   result.Teams,
		ProfileHash: e.profileHash,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	result.Persisted = true
	return nil
}
