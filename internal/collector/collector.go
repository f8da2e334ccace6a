package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"MinerviniScan/internal/metrics"
	"MinerviniScan/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With no DailyData it serves SyntheticBreakout for Pattern "breakout", a
// linear move between Price and twice Price for "uptrend" and "decline", and
// a gentle drift around Price otherwise.
type MockFetcher struct {
	Price     float64
	Pattern   string
	DailyData []model.Bar
	Err       error
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return trimDays(m.DailyData, days), nil
	}
	switch m.Pattern {
	case "breakout":
		return trimDays(SyntheticBreakout(time.Now()), days), nil
	case "uptrend":
		return SyntheticTrend(time.Now(), days, m.Price, m.Price*2), nil
	case "decline":
		return SyntheticTrend(time.Now(), days, m.Price*2, m.Price), nil
	}
	return generateMockBars(m.Price, days), nil
}

// generateMockBars produces a gently rising series ending today.
func generateMockBars(basePrice float64, count int) []model.Bar {
	today := dailyTime(time.Now().Unix())
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   today.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Options tune how a Collector talks to its provider.
type Options struct {
	HistoryDays       int
	RequestsPerSecond float64
	// BreakerFailures consecutive fetch errors open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultOptions suit the public Yahoo endpoint.
func DefaultOptions() Options {
	return Options{
		HistoryDays:       400,
		RequestsPerSecond: 2,
		BreakerFailures:   5,
		BreakerTimeout:    time.Minute,
	}
}

// Collector fetches daily history for one symbol at a time, throttled by a
// token bucket and guarded by a circuit breaker shared across symbols.
type Collector struct {
	Fetcher Fetcher
	days    int
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Registry
}

// NewCollector creates a new Collector. m may be nil.
func NewCollector(fetcher Fetcher, opts Options, m *metrics.Registry) *Collector {
	def := DefaultOptions()
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = def.HistoryDays
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = def.BreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = def.BreakerTimeout
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	st := gobreaker.Settings{Name: fetcher.Name(), Timeout: opts.BreakerTimeout}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= opts.BreakerFailures
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("fetch breaker state changed")
	}

	return &Collector{
		Fetcher: fetcher,
		days:    opts.HistoryDays,
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(st),
		metrics: m,
	}
}

// Collect fetches the configured amount of daily history for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Series{}, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.Fetcher.FetchDailyBars(ctx, symbol, c.days)
	})
	c.metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}

	bars, _ := out.([]model.Bar)
	if len(bars) == 0 {
		return model.Series{}, fmt.Errorf("fetch daily bars %s: %w: provider returned no bars", symbol, model.ErrInsufficientHistory)
	}
	log.Debug().Str("symbol", symbol).Str("provider", c.Fetcher.Name()).Int("bars", len(bars)).
		Dur("took", time.Since(start)).Msg("fetched daily bars")
	return model.Series{Symbol: symbol, Bars: bars}, nil
}
