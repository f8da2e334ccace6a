package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"MinerviniScan/internal/model"
)

// Registry holds the scanner's Prometheus metrics. A nil *Registry is valid
// and records nothing, so packages can take one unconditionally.
type Registry struct {
	reg *prometheus.Registry

	Analyses      *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	ScanDuration  prometheus.Histogram
	LastScan      prometheus.Gauge
	BuyCandidates prometheus.Gauge
}

// New creates a registry with every scanner metric registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minervini_analyses_total",
				Help: "Completed analyses by recommendation",
			},
			[]string{"recommendation"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minervini_analysis_failures_total",
				Help: "Failed analyses by failure kind",
			},
			[]string{"kind"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minervini_fetch_duration_seconds",
				Help:    "Daily bar fetch latency by provider and result",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "result"},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "minervini_scan_duration_seconds",
				Help:    "Wall time of a full watchlist scan",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		LastScan: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "minervini_last_scan_timestamp_seconds",
				Help: "Unix time the last scan finished",
			},
		),
		BuyCandidates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "minervini_buy_candidates",
				Help: "BUY candidates found by the last scan",
			},
		),
	}
	r.reg.MustRegister(r.Analyses, r.Failures, r.FetchDuration, r.ScanDuration, r.LastScan, r.BuyCandidates)
	return r
}

// ObserveFetch records one fetch attempt.
func (r *Registry) ObserveFetch(provider string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.FetchDuration.WithLabelValues(provider, result).Observe(d.Seconds())
}

// ObserveAnalysis counts a finished analysis or its failure kind.
func (r *Registry) ObserveAnalysis(res *model.AnalysisResult, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.Failures.WithLabelValues(model.FailureKind(err)).Inc()
		return
	}
	if res != nil {
		r.Analyses.WithLabelValues(string(res.Recommendation)).Inc()
	}
}

// ObserveScan records a finished scan.
func (r *Registry) ObserveScan(d time.Duration, finished time.Time, buys int) {
	if r == nil {
		return
	}
	r.ScanDuration.Observe(d.Seconds())
	r.LastScan.Set(float64(finished.Unix()))
	r.BuyCandidates.Set(float64(buys))
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
