// Package levels maintains the active support/resistance levels fed by pivot
// events and detects volume-confirmed level breaks.
package levels

import (
	"math"

	"github.com/olibyte/binance-analysis/internal/analysis"
)

// Tracker carries the two current levels forward across a single
// left-to-right scan. State is local to one scan and never shared.
type Tracker struct{}

// NewTracker creates a level tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// TrackResult holds the step-function level columns and the levels active at
// the end of the scan.
type TrackResult struct {
	Resistance []float64
	Support    []float64

	// FinalResistance/FinalSupport are nil until the first pivot of that
	// kind occurs.
	FinalResistance *analysis.Level
	FinalSupport    *analysis.Level
}

// Track scans the pivot columns in index order. A defined pivot_high replaces
// the resistance level, a defined pivot_low replaces the support level, and
// every other bar carries the previous level forward unchanged. The output
// columns are NaN before the first pivot of their kind.
func (t *Tracker) Track(pivotHighs, pivotLows []float64) *TrackResult {
	n := len(pivotHighs)
	res := &TrackResult{
		Resistance: make([]float64, n),
		Support:    make([]float64, n),
	}

	currentRes := math.NaN()
	currentSup := math.NaN()

	for i := 0; i < n; i++ {
		if !math.IsNaN(pivotHighs[i]) {
			currentRes = pivotHighs[i]
			res.FinalResistance = &analysis.Level{
				Price:       pivotHighs[i],
				Kind:        analysis.LevelResistance,
				OriginIndex: i,
			}
		}
		if !math.IsNaN(pivotLows[i]) {
			currentSup = pivotLows[i]
			res.FinalSupport = &analysis.Level{
				Price:       pivotLows[i],
				Kind:        analysis.LevelSupport,
				OriginIndex: i,
			}
		}
		res.Resistance[i] = currentRes
		res.Support[i] = currentSup
	}

	return res
}
