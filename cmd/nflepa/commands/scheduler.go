package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/s4_export"
	"github.com/wonny/nflepa/internal/scheduler"
	"github.com/wonny/nflepa/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler management",
	Long: `Starts the cron scheduler or manages its jobs.

Subcommands:
  start   - start the scheduler daemon
  list    - registered jobs and next run
  run     - run one job now (synchronously)
  status  - job run statistics

Example:
  go run ./cmd/nflepa scheduler start
  go run ./cmd/nflepa scheduler list
  go run ./cmd/nflepa scheduler run team_stats_export`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and registers every job.

Registered jobs:
- team_stats_export:    EXPORT_SCHEDULE (default Tuesday 09:00)
- season_cache_refresh: CACHE_REFRESH_SCHEDULE (default daily 07:30)

Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Job run statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== nflepa Scheduler ===")

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s (next: %s)\n", jobName, sched.NextRun(jobName).Format("2006-01-02 15:04:05"))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	stats := sched.GetJobStats()

	fmt.Fprintln(out, "Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Fprintf(out, "  - %-22s %-14s next %s\n", jobName, stats[jobName].Schedule, sched.NextRun(jobName).Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Running job: %s\n", jobName)

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		PrintError(out, fmt.Sprintf("%s failed after %d attempt(s): %v", jobName, result.Attempts, err))
		return fmt.Errorf("run job: %w", err)
	}

	PrintSuccess(out, fmt.Sprintf("%s completed in %s", jobName, result.Duration))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	stats := sched.GetJobStats()

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "Job Statistics:")
	fmt.Fprintln(out)

	for _, jobName := range names {
		stat := stats[jobName]
		fmt.Fprintf(out, "📊 %s\n", jobName)
		fmt.Fprintf(out, "   Schedule: %s\n", stat.Schedule)
		fmt.Fprintf(out, "   Total Runs: %d\n", stat.TotalRuns)
		fmt.Fprintf(out, "   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Fprintf(out, "   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Fprintf(out, "   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastSuccess != nil {
			fmt.Fprintf(out, "   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}
		if stat.LastFailure != nil {
			fmt.Fprintf(out, "   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Fprintln(out)
	}

	return nil
}

// initScheduler wires the pipeline and registers every job.
// The caller owns the returned app and must Close it.
func initScheduler(cmd *cobra.Command) (*app, *scheduler.Scheduler, error) {
	// 1. Wire dependencies (snapshots when DATABASE_URL is set)
	a, err := bootstrap(cmd.Context(), dbOptional)
	if err != nil {
		return nil, nil, err
	}

	// 2. Create exporter
	exporter := s4_export.NewExporter(a.source, a.store, a.profiles, a.log)
	exportOpts := s4_export.Options{
		Season:  a.cfg.Season,
		Path:    a.cfg.Export.Path,
		Persist: a.store != nil,
	}

	// 3. Create scheduler
	sched := scheduler.New(a.log)

	// 4. Register jobs
	registered := []scheduler.Job{
		jobs.NewExportJob(exporter, exportOpts, a.cfg.Export.Schedule, a.log),
		jobs.NewCacheRefreshJob(a.source, a.cfg.Season, a.cfg.Export.RefreshSchedule, a.log),
	}
	for _, job := range registered {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("register %s: %w", job.Name(), err)
		}
	}

	return a, sched, nil
}
