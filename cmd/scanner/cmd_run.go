package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MinerviniScan/internal/metrics"
	"MinerviniScan/internal/notifier"
	"MinerviniScan/internal/scheduler"
)

// runCmd implements 'scanner run', the long-running daemon
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduled scanner with Telegram commands and metrics",
	Long: `Run scans the watchlist on schedule.scan_cron, alerts on symbols that
newly turn BUY, answers /scan, /analyze and /watchlist in the configured
Telegram chat and serves Prometheus metrics on metrics.listen_addr.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log.Info().Msg("MinerviniScan starting...")

	m := metrics.New()
	rec := newRecorder(cfg)
	defer rec.Close()
	wl := newWatchlist(cfg)
	scr := newScreener(cfg, rec, wl, m)

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, alerts and commands disabled")
	}

	sched := scheduler.NewScheduler(ctx, scr, wl, sender, cfg.Watchlist)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, scanning now")
		go func() {
			if _, err := sched.RunScanNow("startup"); err != nil {
				log.Error().Err(err).Msg("startup scan")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.ScanCron).Int("symbols", len(cfg.Watchlist)).Msg("MinerviniScan is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	return nil
}
