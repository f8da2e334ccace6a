package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MinerviniScan/internal/config"
	"MinerviniScan/internal/notifier"
)

var (
	scanSummary string
	scanNotify  bool
)

// scanCmd implements 'scanner scan [SYMBOL...]'
var scanCmd = &cobra.Command{
	Use:   "scan [SYMBOL...]",
	Short: "Scan the watchlist once and print the BUY/AVOID summary",
	Long: `Scan analyzes every watchlist symbol (or the symbols given), records the
results to SQLite, updates the watchlist state and prints a summary of BUY
candidates and symbols to avoid.`,
	Example: `  scanner scan
  scanner scan AAPL MSFT NVDA --summary out/summary.txt
  scanner scan --notify`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanSummary, "summary", "", "also write the summary report to this file")
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "send the summary and new BUY alerts to Telegram")
}

func runScan(cmd *cobra.Command, args []string) error {
	symbols := cfg.Watchlist
	if len(args) > 0 {
		symbols = config.NormalizeSymbols(args)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols: pass them as arguments or set watchlist in the config")
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	wl := newWatchlist(cfg)

	sum, err := newScreener(cfg, rec, wl, nil).Scan(cmd.Context(), symbols, "cli")
	if err != nil {
		return err
	}
	if err := sum.WriteReport(cmd.OutOrStdout()); err != nil {
		return err
	}

	if scanSummary != "" {
		if err := os.MkdirAll(filepath.Dir(scanSummary), 0755); err != nil {
			return err
		}
		f, err := os.Create(scanSummary)
		if err != nil {
			return fmt.Errorf("create summary: %w", err)
		}
		defer f.Close()
		if err := sum.WriteReport(f); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n📄 Summary report saved to: %s\n", scanSummary)
	}

	if scanNotify {
		if !cfg.TelegramEnabled() {
			return fmt.Errorf("--notify needs telegram.bot_token and telegram.chat_id")
		}
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		for _, o := range sum.Outcomes {
			if o.Result == nil {
				continue
			}
			for _, s := range sum.NewBuys {
				if s == o.Symbol {
					if err := tn.SendWithRetry(cmd.Context(), notifier.FormatBuyAlert(o.Result), 3); err != nil {
						log.Error().Err(err).Str("symbol", s).Msg("send buy alert")
					}
				}
			}
		}
		if err := tn.SendWithRetry(cmd.Context(), notifier.FormatScanSummary(sum), 3); err != nil {
			return fmt.Errorf("send summary: %w", err)
		}
	}
	return nil
}
