package model

// Line is an indicator aligned to a series. Values before Start are warm-up
// slots and must not be read.
type Line struct {
	Values []float64
	Start  int
}

// At returns the value at index i and whether it is defined.
func (l Line) At(i int) (float64, bool) {
	if i < l.Start || i < 0 || i >= len(l.Values) {
		return 0, false
	}
	return l.Values[i], true
}

// Last returns the value at the final index.
func (l Line) Last() (float64, bool) {
	return l.At(len(l.Values) - 1)
}

// IndicatorSet holds every indicator the scorers read, aligned bar for bar.
type IndicatorSet struct {
	SMA50     Line
	SMA150    Line
	SMA200    Line
	EMA10     Line
	EMA21     Line
	High252   Line
	Low252    Line
	AvgVolume Line
}
