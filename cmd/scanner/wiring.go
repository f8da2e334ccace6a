package main

import (
	"github.com/rs/zerolog/log"

	"MinerviniScan/internal/collector"
	"MinerviniScan/internal/config"
	"MinerviniScan/internal/metrics"
	"MinerviniScan/internal/recorder"
	"MinerviniScan/internal/screener"
	"MinerviniScan/internal/watchlist"
)

func newFetcher(c *config.Config) collector.Fetcher {
	ds := c.DataSource
	switch ds.Provider {
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, c.Proxy, ds.Timeout)
	case "mock":
		return &collector.MockFetcher{Price: 100, Pattern: ds.MockPattern}
	default:
		return collector.NewYahooFetcher(c.Proxy, ds.Timeout)
	}
}

func newCollector(c *config.Config, m *metrics.Registry) *collector.Collector {
	f := newFetcher(c)
	log.Info().Str("provider", f.Name()).Msg("data source ready")
	return collector.NewCollector(f, collector.Options{
		HistoryDays:       c.DataSource.HistoryDays,
		RequestsPerSecond: c.DataSource.RequestsPerSecond,
	}, m)
}

// newRecorder falls back to the no-op recorder when SQLite is unavailable.
func newRecorder(c *config.Config) recorder.Recorder {
	if c.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newWatchlist(c *config.Config) *watchlist.Manager {
	if c.State.StateFile == "" {
		return nil
	}
	wl, err := watchlist.NewManager(c.State.StateFile)
	if err != nil {
		log.Warn().Err(err).Str("path", c.State.StateFile).Msg("load watchlist state failed, alerts disabled")
		return nil
	}
	return wl
}

func newScreener(c *config.Config, rec recorder.Recorder, wl *watchlist.Manager, m *metrics.Registry) *screener.Screener {
	return screener.New(newCollector(c, m), c.Params(), screener.Options{
		Concurrency: c.DataSource.MaxConcurrency,
		Recorder:    rec,
		Watchlist:   wl,
		Metrics:     m,
	})
}
