package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/internal/s1_filter"
	"github.com/wonny/nflepa/internal/s2_aggregate"
	"github.com/wonny/nflepa/internal/s4_export"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Season team efficiency dashboard",
	Long: `Prints every team's season efficiency for one side of the ball.

Offense is ranked by EPA/play descending, defense by EPA/play allowed
ascending. Uses the interactive profile unless --mode picks another.

Example:
  go run ./cmd/nflepa dashboard
  go run ./cmd/nflepa dashboard --season 2023 --side defense
  go run ./cmd/nflepa dashboard --mode game`,
	RunE: runDashboard,
}

var (
	dashboardSeason int
	dashboardSide   string
	dashboardMode   string
)

func init() {
	rootCmd.AddCommand(dashboardCmd)

	// Flags
	dashboardCmd.Flags().IntVar(&dashboardSeason, "season", 0, "season (default is SEASON)")
	dashboardCmd.Flags().StringVar(&dashboardSide, "side", string(contracts.SideOffense), "offense|defense")
	dashboardCmd.Flags().StringVar(&dashboardMode, "mode", string(contracts.ModeInteractive), "filter profile: batch|game|interactive")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	side, ok := contracts.ParseSide(dashboardSide)
	if !ok {
		return fmt.Errorf("invalid side %q: must be offense or defense", dashboardSide)
	}
	mode, err := contracts.ParseMode(dashboardMode)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := bootstrap(ctx, dbOff)
	if err != nil {
		return err
	}
	defer a.Close()

	season := a.seasonOrDefault(dashboardSeason)
	return writeDashboard(ctx, cmd.OutOrStdout(), a.source, a.profiles.ForMode(mode), season, side)
}

// writeDashboard computes and prints one side's season table
func writeDashboard(
	ctx context.Context,
	w io.Writer,
	source contracts.SeasonSource,
	profile pipelineconfig.FilterProfile,
	season int,
	side contracts.Side,
) error {
	plays, err := source.Plays(ctx, season)
	if err != nil {
		return fmt.Errorf("Error loading data: %w", err)
	}

	filtered := s1_filter.Filter(plays, profile)
	if filtered.Count() == 0 {
		return s4_export.ErrNoPlays
	}

	rows := s2_aggregate.TeamStats(filtered.Plays, side)
	s2_aggregate.SortTeamStats(rows, side)

	PrintTitle(w, fmt.Sprintf("%d %s efficiency", season, side))
	PrintKeyValue(w, "Profile", filtered.Profile, 8)
	PrintKeyValue(w, "Plays", strconv.Itoa(filtered.Count()), 8)
	PrintExcluded(w, filtered.Excluded)
	fmt.Fprintln(w)
	PrintTeamTable(w, rows)

	return nil
}
