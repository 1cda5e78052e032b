package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/s3_report"
)

// gameCmd represents the game command
var gameCmd = &cobra.Command{
	Use:   "game <SEASON_WEEK_AWAY_HOME>",
	Short: "Single-game EPA report",
	Long: `Builds the efficiency report for one game and prints it as JSON.

The document carries three blocks:
- game:         schedule metadata, final score, team logos
- team_stats:   situational splits for home and away offenses
- player_stats: passing, rushing and receiving tables per team

Failures print {"error": "<message>"} and still exit 0, so a caller
only ever has to parse one JSON document.

Example:
  go run ./cmd/nflepa game 2023_01_DET_KC
  go run ./cmd/nflepa game 2023_01_DET_KC --table`,
	Args: cobra.ExactArgs(1),
	RunE: runGame,
}

var (
	gameTable bool
)

func init() {
	rootCmd.AddCommand(gameCmd)

	// Flags
	gameCmd.Flags().BoolVar(&gameTable, "table", false, "print terminal tables instead of JSON")
}

// GameResolver builds a game report
type GameResolver interface {
	Resolve(ctx context.Context, gameID string) (*contracts.GameReport, error)
}

func runGame(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := bootstrap(ctx, dbOff)
	if err != nil {
		return writeGameError(out, err.Error())
	}
	defer a.Close()

	resolver := s3_report.NewResolver(a.source, a.profiles, a.log)
	return writeGame(ctx, out, resolver, args[0], gameTable)
}

// writeGame resolves one game and prints it; resolution failures become
// an error document and never a non-zero exit
func writeGame(ctx context.Context, w io.Writer, resolver GameResolver, gameID string, table bool) error {
	report, err := resolver.Resolve(ctx, gameID)
	if err != nil {
		return writeGameError(w, err.Error())
	}

	if table {
		PrintGameReport(w, report)
		return nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return writeGameError(w, err.Error())
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeGameError prints {"error": "<message>"}
func writeGameError(w io.Writer, message string) error {
	quoted, err := json.Marshal(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "{\"error\": %s}\n", quoted)
	return err
}
