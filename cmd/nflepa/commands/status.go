package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/pipelineconfig"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Configuration and backend reachability",
	Long: `Prints the effective configuration and checks the optional backends.

Shows:
- Season, export path and schedules
- Active filter profiles and their hash
- Redis and PostgreSQL reachability
- nflverse circuit breaker state

Example:
  go run ./cmd/nflepa status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	a, err := bootstrap(ctx, dbOptional)
	if err != nil {
		return err
	}
	defer a.Close()

	writeStatus(ctx, cmd.OutOrStdout(), a)
	return nil
}

func writeStatus(ctx context.Context, w io.Writer, a *app) {
	const keyWidth = 16

	PrintTitle(w, "nflepa status")
	PrintKeyValue(w, "Env", a.cfg.Env, keyWidth)
	PrintKeyValue(w, "Season", strconv.Itoa(a.cfg.Season), keyWidth)
	PrintKeyValue(w, "PBP format", a.cfg.NFLVerse.PBPFormat, keyWidth)
	PrintKeyValue(w, "Export path", a.cfg.Export.Path, keyWidth)
	PrintKeyValue(w, "Export schedule", a.cfg.Export.Schedule, keyWidth)
	PrintKeyValue(w, "Refresh schedule", a.cfg.Export.RefreshSchedule, keyWidth)

	PrintTitle(w, "Filter profiles")
	source := a.cfg.PipelineConfig
	if source == "" {
		source = "built-in"
	}
	PrintKeyValue(w, "Source", source, keyWidth)
	if hash, err := pipelineconfig.Hash(a.profiles); err == nil {
		PrintKeyValue(w, "Hash", hash[:12], keyWidth)
	}
	for _, p := range a.profiles.All() {
		garbage := "off"
		if p.GarbageTime.Enabled {
			garbage = fmt.Sprintf("wp %.2f-%.2f", p.GarbageTime.WPMin, p.GarbageTime.WPMax)
		}
		PrintKeyValue(w, p.Name, fmt.Sprintf("play rule %s, garbage time %s", p.PlayRule, garbage), keyWidth)
	}

	PrintTitle(w, "Backends")
	PrintKeyValue(w, "nflverse breaker", a.client.BreakerState(), keyWidth)
	PrintKeyValue(w, "Redis", redisStatus(ctx, a), keyWidth)
	PrintKeyValue(w, "PostgreSQL", databaseStatus(ctx, a), keyWidth)

	stats := a.source.Stats()
	PrintKeyValue(w, "Season cache", fmt.Sprintf("%d entries, L2 %t", stats.Entries, stats.L2), keyWidth)
	fmt.Fprintln(w)
}

func redisStatus(ctx context.Context, a *app) string {
	if !a.cfg.Redis.Enabled {
		return "disabled"
	}
	if !a.redis.Enabled() {
		return "unreachable"
	}
	if err := a.redis.Ping(ctx); err != nil {
		return "unreachable: " + err.Error()
	}
	return fmt.Sprintf("ok (%s db %d)", a.redis.Addr(), a.cfg.Redis.DB)
}

func databaseStatus(ctx context.Context, a *app) string {
	if !a.cfg.Database.Enabled() {
		return "not configured"
	}
	if a.db == nil {
		return "unreachable"
	}
	health, err := a.db.Check(ctx)
	if err != nil {
		return "unreachable: " + err.Error()
	}
	return fmt.Sprintf("ok (%d/%d conns, %s)", health.Pool.Total, health.Pool.Max, health.Latency.Round(time.Millisecond))
}
