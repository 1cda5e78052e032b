package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/s4_export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Season team stats export",
	Long: `Computes offense and defense efficiency for every team in a season
and writes team_stats.json (sorted keys, 2-space indent, atomic replace).

Uses the batch profile: regular season, pass or rush indicator plays,
no garbage-time filter.

Example:
  go run ./cmd/nflepa export
  go run ./cmd/nflepa export --season 2024 --output public/data/team_stats.json
  go run ./cmd/nflepa export --persist`,
	RunE: runExport,
}

var (
	exportSeason  int
	exportOutput  string
	exportPersist bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	// Flags
	exportCmd.Flags().IntVar(&exportSeason, "season", 0, "season (default is SEASON)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default is EXPORT_PATH)")
	exportCmd.Flags().BoolVar(&exportPersist, "persist", false, "also store the run in PostgreSQL")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	mode := dbOff
	if exportPersist {
		mode = dbRequired
	}

	a, err := bootstrap(ctx, mode)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := s4_export.Options{
		Season:  a.seasonOrDefault(exportSeason),
		Path:    exportOutput,
		Persist: exportPersist,
	}
	if opts.Path == "" {
		opts.Path = a.cfg.Export.Path
	}

	fmt.Fprintf(out, "Loading play-by-play data for %d...\n", opts.Season)

	exporter := s4_export.NewExporter(a.source, a.store, a.profiles, a.log)
	result, err := exporter.Export(ctx, opts)
	if err != nil {
		PrintError(out, err.Error())
		return err
	}

	PrintSuccess(out, fmt.Sprintf("Exported stats for %d teams to %s", result.Teams, result.Path))
	PrintKeyValue(out, "Run ID", result.RunID, 9)
	PrintKeyValue(out, "Plays", strconv.Itoa(result.Plays), 9)
	PrintKeyValue(out, "Bytes", strconv.Itoa(result.Bytes), 9)
	PrintKeyValue(out, "Duration", result.Duration.String(), 9)
	if result.Persisted {
		PrintKeyValue(out, "Snapshot", "saved", 9)
	}
	PrintExcluded(out, result.Excluded)

	return nil
}
