package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/nflepa/internal/api"
	"github.com/wonny/nflepa/internal/api/handlers"
	"github.com/wonny/nflepa/internal/s3_report"
	"github.com/wonny/nflepa/internal/scheduler"
	"github.com/wonny/nflepa/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the JSON API consumed by the interactive front end.
The season cache refresh job runs in the background while serving.

Endpoints:
  GET  /health
  GET  /api/seasons
  GET  /api/seasons/{season}/games?week=N
  GET  /api/seasons/{season}/teams/{side}
  GET  /api/seasons/{season}/snapshot
  GET  /api/games/{gameID}

Example:
  go run ./cmd/nflepa serve
  go run ./cmd/nflepa serve --port 9090`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default is PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== nflepa API Server ===")

	// 1. Wire dependencies
	a, err := bootstrap(cmd.Context(), dbOptional)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if servePort != "" {
		a.cfg.Port = servePort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":      a.cfg.Port,
		"env":       a.cfg.Env,
		"snapshots": a.store != nil,
	}).Info("Initializing API server")

	// 2. Create handlers
	seasonHandler := handlers.NewSeasonHandler(a.source, a.source, a.store, a.profiles, log)
	gameHandler := handlers.NewGameHandler(s3_report.NewResolver(a.source, a.profiles, log), log)

	// 3. Create router and server
	router := api.NewRouter(seasonHandler, gameHandler, log)
	server := api.New(a.cfg, log, router)

	// 4. Background cache refresh
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewCacheRefreshJob(a.source, a.cfg.Season, a.cfg.Export.RefreshSchedule, log)); err != nil {
		return fmt.Errorf("register cache refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 5. Serve until SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
