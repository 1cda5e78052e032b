package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	pipelineConfig string
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nflepa",
	Short: "NFL play-by-play EPA dashboards and exports",
	Long: `nflepa unified CLI

Computes EPA efficiency tables from nflverse play-by-play.
Load → Filter → Aggregate → Report/Export pipeline.

Usage:
  go run ./cmd/nflepa [command]

Examples:
  go run ./cmd/nflepa game 2023_01_DET_KC
  go run ./cmd/nflepa export --season 2025
  go run ./cmd/nflepa dashboard --side defense
  go run ./cmd/nflepa serve`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&pipelineConfig, "pipeline-config", "", "filter profile YAML (default is PIPELINE_CONFIG or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
