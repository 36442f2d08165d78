package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/internal/bot"
	"github.com/wonny/fairvalue/internal/external/telegram"
	"github.com/wonny/fairvalue/internal/scheduler"
	"github.com/wonny/fairvalue/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat bot, the HTTP API and the scheduled digest",
	Long: `Runs every long-lived component until interrupted:

- Telegram bot (long polling), when TELEGRAM_BOT_TOKEN is set
- HTTP API on PORT
- Scheduled digest, when DIGEST_ENABLED=true
- In-memory ratio cache cleanup, when Redis is disabled

Example:
  go run ./cmd/fairvalue serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Digest.Enabled && cfg.Telegram.BotToken == "" {
		return fmt.Errorf("DIGEST_ENABLED requires TELEGRAM_BOT_TOKEN")
	}

	log := newLogger(cfg, nil)

	rt, err := newRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// 1. Scheduler
	sched := scheduler.New(log)
	if rt.memCache != nil {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(rt.memCache, log)); err != nil {
			return err
		}
	}

	var tg *telegram.Client
	if cfg.Telegram.BotToken != "" {
		tg = rt.newTelegram()
		if cfg.Digest.Enabled {
			digest := jobs.NewDigestJob(rt.analyzer, tg, cfg.Digest.Schedule, cfg.Digest.Tickers, cfg.Digest.ChatIDs, log)
			if err := sched.AddJob(digest); err != nil {
				return err
			}
		}
	}

	// 2. HTTP API
	server := newAPIServer(rt, sched)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 3. Telegram bot
	if tg != nil {
		b := bot.New(tg, rt.analyzer, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Run(ctx, tg, cfg.Telegram.PollTimeout); err != nil {
				log.WithError(err).Error("Bot stopped with error")
			}
		}()
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, chat bot disabled")
	}

	sched.Start()

	fmt.Printf("\n✅ fairvalue running (API on :%s)\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	var runErr error
	select {
	case runErr = <-errCh:
		stop()
	case <-ctx.Done():
	}

	sched.Stop()
	wg.Wait()

	if err := shutdownServer(rt, server); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
