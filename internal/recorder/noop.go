package recorder

import "MinerviniScan/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *ScanRun) error                          { return nil }
func (n *NoopRecorder) RecordResult(_ string, _ *model.AnalysisResult) error { return nil }
func (n *NoopRecorder) RecordFailure(_, _ string, _ error) error            { return nil }
func (n *NoopRecorder) RecentResults(_ string, _ int) ([]StoredResult, error) {
	return nil, nil
}
func (n *NoopRecorder) CountFailures(_ string) (int, error) { return 0, nil }
func (n *NoopRecorder) Close() error                         { return nil }
