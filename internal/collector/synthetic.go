package collector

import (
	"time"

	"MinerviniScan/internal/model"
)

type leg struct {
	bars   int
	target float64
	volume float64
}

// SyntheticBreakout returns 280 daily bars ending at end: a 240-bar advance
// from 50 to 100, three pullbacks of 20%, 12% and 6% on drying volume, a
// quiet drift under the 93 pivot and a breakout to 95 on 1800 shares.
func SyntheticBreakout(end time.Time) []model.Bar {
	closes, volumes := walk(50, 1000,
		leg{240, 100, 1000},
		leg{8, 80, 1000},
		leg{6, 96, 500},
		leg{6, 84.48, 700},
		leg{6, 93, 500},
		leg{4, 87.42, 400},
		leg{8, 92.5, 500},
		leg{1, 95, 1800},
	)
	// pivot highs carry the volume of the pullback they start
	volumes[254] = 700
	volumes[266] = 400
	return flat(end, closes, volumes)
}

// SyntheticTrend returns n bars moving linearly from `from` to `to` on
// constant volume.
func SyntheticTrend(end time.Time, n int, from, to float64) []model.Bar {
	if n < 2 {
		n = 2
	}
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = from + (to-from)*float64(i)/float64(n-1)
		volumes[i] = 1000
	}
	return flat(end, closes, volumes)
}

func walk(start, startVolume float64, legs ...leg) (closes, volumes []float64) {
	closes = []float64{start}
	volumes = []float64{startVolume}
	for _, l := range legs {
		from := closes[len(closes)-1]
		for k := 1; k <= l.bars; k++ {
			closes = append(closes, from+(l.target-from)*float64(k)/float64(l.bars))
			volumes = append(volumes, l.volume)
		}
	}
	return closes, volumes
}

// flat builds bars with open, high, low and close equal, one calendar day
// apart, the last dated end.
func flat(end time.Time, closes, volumes []float64) []model.Bar {
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   end.AddDate(0, 0, i-len(closes)+1),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volumes[i],
		}
	}
	return bars
}
