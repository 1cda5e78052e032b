package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// seasonsCmd represents the seasons command
var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List seasons with published play-by-play",
	Long: `Reads the nflverse pbp release asset list and prints every season
that has a play-by-play file.

Example:
  go run ./cmd/nflepa seasons`,
	Args: cobra.NoArgs,
	RunE: runSeasons,
}

func init() {
	rootCmd.AddCommand(seasonsCmd)
}

func runSeasons(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx, dbOff)
	if err != nil {
		return err
	}
	defer a.Close()

	seasons, err := a.source.Seasons(ctx)
	if err != nil {
		return fmt.Errorf("Error loading data: %w", err)
	}

	if len(seasons) == 0 {
		PrintWarning(cmd.OutOrStdout(), "No seasons published")
		return nil
	}

	labels := make([]string, len(seasons))
	for i, s := range seasons {
		labels[i] = strconv.Itoa(s)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(labels, "\n"))
	return nil
}
