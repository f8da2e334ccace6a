package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSeries(n int) Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = Bar{Time: start.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1000}
	}
	return Series{Symbol: "TEST", Bars: bars}
}

func TestSeriesValidate_OK(t *testing.T) {
	require.NoError(t, validSeries(10).Validate())
}

func TestSeriesValidate_AllowsGaps(t *testing.T) {
	s := validSeries(5)
	s.Bars[3].Time = s.Bars[3].Time.AddDate(0, 0, 3)
	s.Bars[4].Time = s.Bars[3].Time.AddDate(0, 0, 1)
	assert.NoError(t, s.Validate())
}

func TestSeriesValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Series)
	}{
		{"empty symbol", func(s *Series) { s.Symbol = "" }},
		{"duplicate date", func(s *Series) { s.Bars[2].Time = s.Bars[1].Time }},
		{"descending date", func(s *Series) { s.Bars[2].Time = s.Bars[0].Time.AddDate(0, 0, -1) }},
		{"zero close", func(s *Series) { s.Bars[4].Close = 0 }},
		{"negative low", func(s *Series) { s.Bars[4].Low = -1 }},
		{"zero volume", func(s *Series) { s.Bars[4].Volume = 0 }},
		{"high below low", func(s *Series) { s.Bars[4].High = s.Bars[4].Low - 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSeries(6)
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSeries)
		})
	}
}

func TestLineAt(t *testing.T) {
	l := Line{Values: []float64{0, 0, 3, 4}, Start: 2}
	_, ok := l.At(1)
	assert.False(t, ok)
	v, ok := l.At(2)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	v, ok = l.Last()
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
	_, ok = l.At(4)
	assert.False(t, ok)
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "", FailureKind(nil))
	assert.Equal(t, "insufficient_history", FailureKind(ErrInsufficientHistory))
	assert.Equal(t, "invalid_stop_loss", FailureKind(ErrInvalidStopLoss))
	assert.Equal(t, "malformed_series", FailureKind(ErrMalformedSeries))
	assert.Equal(t, "other", FailureKind(assert.AnError))
}
