package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/contracts"
)

// gamesCmd represents the games command
var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List a season's games",
	Long: `Lists schedule games as enumerated choices (Week X: AWAY @ HOME).
The Game ID column is what the game command expects. Postseason games
are listed only when the game profile admits postseason plays.

Example:
  go run ./cmd/nflepa games --season 2023
  go run ./cmd/nflepa games --season 2023 --week 1`,
	RunE: runGames,
}

var (
	gamesSeason int
	gamesWeek   int
)

func init() {
	rootCmd.AddCommand(gamesCmd)

	// Flags
	gamesCmd.Flags().IntVar(&gamesSeason, "season", 0, "season (default is SEASON)")
	gamesCmd.Flags().IntVar(&gamesWeek, "week", 0, "week (default is every week)")
}

func runGames(cmd *cobra.Command, args []string) error {
	if gamesWeek < 0 {
		return fmt.Errorf("invalid week: %d", gamesWeek)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := bootstrap(ctx, dbOff)
	if err != nil {
		return err
	}
	defer a.Close()

	season := a.seasonOrDefault(gamesSeason)
	schedule, err := a.source.Schedule(ctx, season)
	if err != nil {
		return fmt.Errorf("Error loading data: %w", err)
	}

	if a.profiles.ForMode(contracts.ModeGame).RegularSeasonOnly {
		schedule = schedule.RegularSeason()
	}

	games := schedule.Week(gamesWeek)
	if len(games) == 0 {
		PrintWarning(out, fmt.Sprintf("No games found for %d", season))
		return nil
	}

	PrintTitle(out, fmt.Sprintf("%d schedule", season))
	PrintGameChoices(out, games)
	return nil
}
