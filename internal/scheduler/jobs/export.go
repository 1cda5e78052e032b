package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/nflepa/internal/s4_export"
	"github.com/wonny/nflepa/internal/scheduler"
	"github.com/wonny/nflepa/pkg/logger"
)

// Exporter runs one batch export
type Exporter interface {
	Export(ctx context.Context, opts s4_export.Options) (*s4_export.Result, error)
}

// ExportJob rewrites team_stats.json for the configured season
// ⭐ SSOT: the weekly export schedule lives only in this job
type ExportJob struct {
	exporter Exporter
	opts     s4_export.Options
	schedule string
	logger   *logger.Logger
}

// NewExportJob creates a new export job
func NewExportJob(exporter Exporter, opts s4_export.Options, schedule string, log *logger.Logger) *ExportJob {
	return &ExportJob{
		exporter: exporter,
		opts:     opts,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ExportJob) Name() string {
	return "team_stats_export"
}

// Schedule returns the cron schedule (default Tuesday 09:00, after Monday night)
func (j *ExportJob) Schedule() string {
	return j.schedule
}

// Run executes the export
func (j *ExportJob) Run(ctx context.Context) error {
	j.logger.WithField("season", j.opts.Season).Info("Starting scheduled export")

	result, err := j.exporter.Export(ctx, j.opts)
	if errors.Is(err, s4_export.ErrNoPlays) {
		// Offseason or preseason: nothing to export until games are played
		return scheduler.Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("export season %d: %w", j.opts.Season, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": result.RunID,
		"teams":  result.Teams,
		"plays":  result.Plays,
		"path":   result.Path,
	}).Info("Scheduled export written")

	return nil
}
