package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MinerviniScan/internal/metrics"
	"MinerviniScan/internal/model"
	"MinerviniScan/internal/recorder"
	"MinerviniScan/internal/strategy"
	"MinerviniScan/internal/watchlist"
)

// Source supplies daily history for a symbol. *collector.Collector is one.
type Source interface {
	Collect(ctx context.Context, symbol string) (model.Series, error)
}

// Outcome is the per-symbol result of a scan. Exactly one of Result and Err
// is set.
type Outcome struct {
	Symbol string
	Result *model.AnalysisResult
	Err    error
}

// Summary groups a scan's outcomes.
type Summary struct {
	RunID      string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome // input order
	Buys       []*model.AnalysisResult
	Avoids     []*model.AnalysisResult
	Failures   []Outcome
	NewBuys    []string // symbols that turned BUY in this run
}

// Options wires optional collaborators. Zero values disable them.
type Options struct {
	Concurrency int
	Recorder    recorder.Recorder
	Watchlist   *watchlist.Manager
	Metrics     *metrics.Registry
}

// Screener runs the analysis engine over many symbols.
type Screener struct {
	source Source
	params strategy.Params
	opts   Options
}

// New creates a Screener.
func New(source Source, params strategy.Params, opts Options) *Screener {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	return &Screener{source: source, params: params, opts: opts}
}

// Analyze fetches and analyzes a single symbol without recording it.
// Fetches aborted by ctx are not counted as analysis failures.
func (s *Screener) Analyze(ctx context.Context, symbol string) (*model.Report, error) {
	series, err := s.source.Collect(ctx, symbol)
	if err != nil {
		if ctx.Err() == nil {
			s.opts.Metrics.ObserveAnalysis(nil, err)
		}
		return nil, err
	}
	rep, err := strategy.Run(series, s.params)
	if err != nil {
		s.opts.Metrics.ObserveAnalysis(nil, err)
		return nil, err
	}
	s.opts.Metrics.ObserveAnalysis(&rep.Result, nil)
	return rep, nil
}

// Scan analyzes symbols concurrently. Per-symbol failures land in the
// summary; only cancellation of ctx fails the scan.
func (s *Screener) Scan(ctx context.Context, symbols []string, trigger string) (*Summary, error) {
	sum := &Summary{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(symbols)),
	}
	logger := log.With().Str("run_id", sum.RunID).Logger()
	logger.Info().Int("symbols", len(symbols)).Str("trigger", trigger).Msg("scan started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := Outcome{Symbol: symbol}
			rep, err := s.Analyze(gctx, symbol)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				out.Err = err
				logger.Warn().Str("symbol", symbol).Str("kind", model.FailureKind(err)).Err(err).Msg("analysis failed")
			} else {
				out.Result = &rep.Result
				logger.Info().Str("symbol", symbol).Str("recommendation", string(rep.Result.Recommendation)).
					Int("phase1", rep.Result.Phase1Score).Int("phase2", rep.Result.Phase2Score).Msg("analyzed")
			}
			sum.Outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", sum.RunID, err)
	}
	sum.FinishedAt = time.Now()

	s.collate(sum)
	s.persist(sum)
	s.opts.Metrics.ObserveScan(sum.FinishedAt.Sub(sum.StartedAt), sum.FinishedAt, len(sum.Buys))

	logger.Info().Int("buys", len(sum.Buys)).Int("avoids", len(sum.Avoids)).Int("failures", len(sum.Failures)).
		Strs("new_buys", sum.NewBuys).Dur("took", sum.FinishedAt.Sub(sum.StartedAt)).Msg("scan finished")
	return sum, nil
}

func (s *Screener) collate(sum *Summary) {
	for _, o := range sum.Outcomes {
		switch {
		case o.Err != nil:
			sum.Failures = append(sum.Failures, o)
		case o.Result.Recommendation == model.RecommendBuy:
			sum.Buys = append(sum.Buys, o.Result)
		default:
			sum.Avoids = append(sum.Avoids, o.Result)
		}
	}
}

// persist records outcomes and updates the watchlist. Storage errors are
// logged; they never fail a scan.
func (s *Screener) persist(sum *Summary) {
	rec := s.opts.Recorder
	for _, o := range sum.Outcomes {
		if o.Err != nil {
			if err := rec.RecordFailure(sum.RunID, o.Symbol, o.Err); err != nil {
				log.Error().Err(err).Str("symbol", o.Symbol).Msg("record failure")
			}
			if s.opts.Watchlist != nil {
				s.opts.Watchlist.ObserveFailure(o.Symbol, o.Err)
			}
			continue
		}
		if err := rec.RecordResult(sum.RunID, o.Result); err != nil {
			log.Error().Err(err).Str("symbol", o.Symbol).Msg("record result")
		}
		if s.opts.Watchlist != nil && s.opts.Watchlist.Observe(o.Result) {
			sum.NewBuys = append(sum.NewBuys, o.Symbol)
		}
	}

	if err := rec.RecordRun(&recorder.ScanRun{
		ID:         sum.RunID,
		Trigger:    sum.Trigger,
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
		Symbols:    len(sum.Outcomes),
		Buys:       len(sum.Buys),
		Avoids:     len(sum.Avoids),
		Failures:   len(sum.Failures),
	}); err != nil {
		log.Error().Err(err).Str("run_id", sum.RunID).Msg("record scan run")
	}
	if s.opts.Watchlist != nil {
		s.opts.Watchlist.FinishScan(sum.RunID, sum.FinishedAt)
	}
}
