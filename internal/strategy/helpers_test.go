package strategy

import (
	"time"

	"MinerviniScan/internal/model"
)

var day0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// flatBars builds bars whose open, high, low and close all equal the close,
// which keeps pivot prices exact.
func flatBars(closes, volumes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Time: day0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: volumes[i]}
	}
	return bars
}

// rangedBars builds bars with a 1% range around each close.
func rangedBars(closes []float64, volume float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Time: day0.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: volume}
	}
	return bars
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// ramp returns n closes moving linearly from `from` to `to` inclusive.
func ramp(n int, from, to float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

// path appends linear segments to a starting price. Each segment adds
// `bars` closes ending exactly at its target.
type segment struct {
	bars   int
	target float64
	volume float64
}

func path(start, startVolume float64, segs ...segment) (closes, volumes []float64) {
	closes = []float64{start}
	volumes = []float64{startVolume}
	for _, s := range segs {
		from := closes[len(closes)-1]
		for k := 1; k <= s.bars; k++ {
			closes = append(closes, from+(s.target-from)*float64(k)/float64(s.bars))
			volumes = append(volumes, s.volume)
		}
	}
	return closes, volumes
}

// Base scenario layout. The uptrend ends at uptrendEnd with a close of 100;
// three legs follow (100->80, 96->84.48, 93->87.42) separated by rallies,
// then a breakout bar closes at 95 on volume 1800.
const (
	uptrendEnd = 240
	leg1Start  = uptrendEnd
	leg1End    = leg1Start + 8
	leg2Start  = leg1End + 6
	leg2End    = leg2Start + 6
	leg3Start  = leg2End + 6
	leg3End    = leg3Start + 4
)

func vcpScenario() model.Series {
	closes, volumes := path(50, 1000,
		segment{uptrendEnd, 100, 1000},
		segment{8, 80, 1000},   // leg 1: 20%
		segment{6, 96, 500},    // rally
		segment{6, 84.48, 700}, // leg 2: 12%
		segment{6, 93, 500},    // rally
		segment{4, 87.42, 400}, // leg 3: 6%
		segment{8, 92.5, 500},  // quiet drift under the pivot
		segment{1, 95, 1800},   // breakout
	)
	// pivot bars carry the volume of the leg they start
	volumes[leg2Start] = 700
	volumes[leg3Start] = 400
	return model.Series{Symbol: "VCP", Bars: flatBars(closes, volumes)}
}

func vcpParams() Params {
	p := DefaultParams()
	p.VCPLookback = 60
	p.MinLegBars = 3
	p.VolumeAvgPeriod = 8
	return p
}

func risingSeries() model.Series {
	closes := ramp(300, 100, 200)
	return model.Series{Symbol: "RISE", Bars: flatBars(closes, constant(300, 1000))}
}

func decliningSeries() model.Series {
	return model.Series{Symbol: "FALL", Bars: rangedBars(ramp(300, 200, 100), 1000)}
}
