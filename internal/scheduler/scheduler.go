package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MinerviniScan/internal/notifier"
	"MinerviniScan/internal/screener"
	"MinerviniScan/internal/watchlist"
)

// ErrScanRunning is returned when a scan is requested while one is in progress.
var ErrScanRunning = errors.New("scan already running")

// Sender delivers chat messages. *notifier.TelegramNotifier is one.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron scan and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Screener  *screener.Screener
	Watchlist *watchlist.Manager
	Notifier  Sender // nil disables messages
	Symbols   []string
	Ctx       context.Context

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, scr *screener.Screener, wl *watchlist.Manager, n Sender, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Screener:  scr,
		Watchlist: wl,
		Notifier:  n,
		Symbols:   symbols,
		Ctx:       ctx,
	}
}

// Register adds the watchlist scan on scanCron (six fields, seconds first).
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("symbols", len(s.Symbols)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunScanNow scans the watchlist immediately, alerting on new BUYs.
func (s *Scheduler) RunScanNow(trigger string) (*screener.Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrScanRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	sum, err := s.Screener.Scan(s.Ctx, s.Symbols, trigger)
	if err != nil {
		return nil, err
	}
	for _, o := range sum.Outcomes {
		if o.Result != nil && contains(sum.NewBuys, o.Symbol) {
			s.trySend(notifier.FormatBuyAlert(o.Result))
		}
	}
	return sum, nil
}

func (s *Scheduler) scanTask() {
	log.Info().Msg("running scheduled scan")
	sum, err := s.RunScanNow("cron")
	if err != nil {
		log.Error().Err(err).Msg("scheduled scan")
		if !errors.Is(err, ErrScanRunning) {
			s.trySend(fmt.Sprintf("❌ Scheduled scan failed: %v", err))
		}
		return
	}
	s.trySend(notifier.FormatScanSummary(sum))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/scan":
		sum, err := s.RunScanNow("command")
		if err != nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
		return notifier.FormatScanSummary(sum)
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL"
		}
		symbol := strings.ToUpper(fields[1])
		rep, err := s.Screener.Analyze(s.Ctx, symbol)
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", symbol, err)
		}
		return notifier.FormatResult(&rep.Result)
	case "/watchlist":
		if s.Watchlist == nil {
			return "Watchlist state is not configured"
		}
		_, at := s.Watchlist.LastScan()
		return notifier.FormatWatchlist(s.Watchlist.Entries(), at)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /scan\n• /analyze SYMBOL\n• /watchlist"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
