package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MinerviniScan/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the history command read while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          TEXT PRIMARY KEY,
			triggered_by TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			symbols     INTEGER,
			buys        INTEGER,
			avoids      INTEGER,
			failures    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_results (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT,
			recorded_at     INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			as_of           INTEGER NOT NULL,
			current_price   REAL,
			phase1_score    INTEGER,
			phase1_failures TEXT,
			phase2_score    INTEGER,
			triggered       INTEGER,
			volume_ratio    REAL,
			recommendation  TEXT,
			stop_loss       REAL,
			risk_percent    REAL,
			shares          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON analysis_results(symbol, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_failures (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT,
			recorded_at INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			kind        TEXT,
			message     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_symbol ON analysis_failures(symbol, recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO scan_runs
		(id, triggered_by, started_at, finished_at, symbols, buys, avoids, failures)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.Trigger, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Symbols, run.Buys, run.Avoids, run.Failures,
	)
	return err
}

func (r *SQLiteRecorder) RecordResult(runID string, res *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shares int64
	if res.Position != nil {
		shares = res.Position.Shares
	}
	triggered := 0
	if res.Entry.Triggered {
		triggered = 1
	}

	_, err := r.db.Exec(`INSERT INTO analysis_results
		(run_id, recorded_at, symbol, as_of, current_price,
		 phase1_score, phase1_failures, phase2_score, triggered, volume_ratio,
		 recommendation, stop_loss, risk_percent, shares)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, time.Now().UnixNano(), res.Symbol, res.AsOf.Unix(), res.CurrentPrice,
		res.Phase1Score, strings.Join(res.Phase1Failures, ","), res.Phase2Score, triggered, res.Entry.VolumeRatio,
		string(res.Recommendation), res.StopLoss, res.RiskPercent, shares,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(runID, symbol string, failure error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := ""
	if failure != nil {
		msg = failure.Error()
	}
	_, err := r.db.Exec(`INSERT INTO analysis_failures
		(run_id, recorded_at, symbol, kind, message)
		VALUES (?,?,?,?,?)`,
		runID, time.Now().UnixNano(), symbol, model.FailureKind(failure), msg,
	)
	return err
}

func (r *SQLiteRecorder) RecentResults(symbol string, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT run_id, recorded_at, symbol, as_of, current_price,
		phase1_score, phase1_failures, phase2_score, triggered, volume_ratio,
		recommendation, stop_loss, risk_percent, shares
		FROM analysis_results WHERE symbol = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var (
			sr                StoredResult
			recordedAt, asOf  int64
			failures, verdict string
			triggered         int
		)
		if err := rows.Scan(&sr.RunID, &recordedAt, &sr.Symbol, &asOf, &sr.CurrentPrice,
			&sr.Phase1Score, &failures, &sr.Phase2Score, &triggered, &sr.VolumeRatio,
			&verdict, &sr.StopLoss, &sr.RiskPercent, &sr.Shares); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		sr.RecordedAt = time.Unix(0, recordedAt)
		sr.AsOf = time.Unix(asOf, 0).UTC()
		sr.Triggered = triggered == 1
		sr.Recommendation = model.Recommendation(verdict)
		sr.Phase1Failures = []string{}
		if failures != "" {
			sr.Phase1Failures = strings.Split(failures, ",")
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) CountFailures(runID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM analysis_failures WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
