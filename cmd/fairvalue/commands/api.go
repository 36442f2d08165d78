package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/internal/api"
	"github.com/wonny/fairvalue/internal/api/handlers"
	"github.com/wonny/fairvalue/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API only",
	Long: `Starts the REST / WebSocket API without the chat bot.

Endpoints:
  GET  /health                      - Health check
  GET  /api/valuation?tickers=A,B   - Fetch and value tickers
  POST /api/valuation/basket        - Value a posted basket (no fetch)
  GET  /api/valuation/export?tickers=A,B - CSV attachment
  GET  /api/explain/{ratio}         - Ratio explanation
  GET  /ws/valuation?tickers=A,B    - Streamed progress + result
  GET  /api/scheduler/jobs          - Job stats (serve only)
  POST /api/scheduler/jobs/{name}/run - Run a job now (serve only)

Example:
  go run ./cmd/fairvalue api
  go run ./cmd/fairvalue api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := newLogger(cfg, nil)

	rt, err := newRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	server := newAPIServer(rt, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return shutdownServer(rt, server)
}

// newAPIServer builds the API; sched may be nil
func newAPIServer(rt *app, sched *scheduler.Scheduler) *api.Server {
	valuationHandler := handlers.NewValuationHandler(rt.analyzer, rt.engine, rt.log)

	var jobsHandler *handlers.JobsHandler
	if sched != nil {
		jobsHandler = handlers.NewJobsHandler(sched, rt.log)
	}

	router := api.NewRouter(api.Handlers{
		Valuation: valuationHandler,
		Jobs:      jobsHandler,
		Health:    handlers.NewHealthHandler("fairvalue-api", rt.redis),
	}, rt.log)
	return api.New(rt.cfg, rt.log, router)
}

func shutdownServer(rt *app, server *api.Server) error {
	rt.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
