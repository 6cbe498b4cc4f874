// Package indicators provides the indicator transforms that drive the
// detection pipeline: the windowed extremum scanner, pivot detection, the
// volume oscillator and auxiliary inputs for pattern rules.
package indicators

import (
	"github.com/olibyte/binance-analysis/internal/analysis"
	apperrors "github.com/olibyte/binance-analysis/internal/errors"
)

// ExtremumKind selects whether the scanner compares against the window
// maximum or minimum.
type ExtremumKind int

const (
	ExtremumMax ExtremumKind = iota
	ExtremumMin
)

// IsExtremum reports whether values[index] equals the extreme of values over
// the closed window [index-left, index+right]. Windows extending outside the
// series are not an error: edge bars simply never qualify. Ties all qualify
// independently.
func IsExtremum(values []float64, index, left, right int, kind ExtremumKind) bool {
	if index-left < 0 || index+right >= len(values) {
		return false
	}
	v := values[index]
	for j := index - left; j <= index+right; j++ {
		if kind == ExtremumMax && values[j] > v {
			return false
		}
		if kind == ExtremumMin && values[j] < v {
			return false
		}
	}
	return true
}

// PivotScanner finds pivot-high and pivot-low bars using a symmetric
// left/right window. A pivot at index i depends on bars up to i+rightBars:
// the lookahead trades confirmation latency for reliability and is a design
// property of the detector, not an artifact.
type PivotScanner struct {
	leftBars  int
	rightBars int
}

// NewPivotScanner creates a pivot scanner. Non-positive windows are rejected.
func NewPivotScanner(leftBars, rightBars int) (*PivotScanner, error) {
	if leftBars <= 0 {
		return nil, apperrors.NewConfigError("left_bars", leftBars, "must be positive")
	}
	if rightBars <= 0 {
		return nil, apperrors.NewConfigError("right_bars", rightBars, "must be positive")
	}
	return &PivotScanner{leftBars: leftBars, rightBars: rightBars}, nil
}

// LeftBars returns the configured left window size.
func (p *PivotScanner) LeftBars() int { return p.leftBars }

// RightBars returns the configured right window size.
func (p *PivotScanner) RightBars() int { return p.rightBars }

// Scan produces the pivot_high and pivot_low columns: the bar's high/low
// price where the bar is a window extremum, NaN elsewhere.
func (p *PivotScanner) Scan(highs, lows []float64) (pivotHighs, pivotLows []float64) {
	pivotHighs = nans(len(highs))
	pivotLows = nans(len(lows))
	for i := range highs {
		if IsExtremum(highs, i, p.leftBars, p.rightBars, ExtremumMax) {
			pivotHighs[i] = highs[i]
		}
		if IsExtremum(lows, i, p.leftBars, p.rightBars, ExtremumMin) {
			pivotLows[i] = lows[i]
		}
	}
	return pivotHighs, pivotLows
}

// Events converts pivot columns into ordered pivot events.
func (p *PivotScanner) Events(pivotHighs, pivotLows []float64) []analysis.PivotEvent {
	var events []analysis.PivotEvent
	for i := range pivotHighs {
		if Defined(pivotHighs[i]) {
			events = append(events, analysis.PivotEvent{Index: i, Price: pivotHighs[i], Kind: analysis.PivotHigh})
		}
		if Defined(pivotLows[i]) {
			events = append(events, analysis.PivotEvent{Index: i, Price: pivotLows[i], Kind: analysis.PivotLow})
		}
	}
	return events
}
