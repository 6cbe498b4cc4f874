package levels

import (
	"math"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/series"
)

// BreakDetector classifies volume-confirmed level crossings. The break test
// reads the level established as of the previous bar: a break at i means the
// close crossed the level that was active at i-1.
type BreakDetector struct {
	volumeThreshold float64
}

// NewBreakDetector creates a break detector with the given volume oscillator
// threshold.
func NewBreakDetector(volumeThreshold float64) (*BreakDetector, error) {
	if math.IsNaN(volumeThreshold) || math.IsInf(volumeThreshold, 0) {
		return nil, apperrors.NewConfigError("volume_threshold", volumeThreshold, "must be finite")
	}
	return &BreakDetector{volumeThreshold: volumeThreshold}, nil
}

// BreakSet holds the four break flag columns (0/1).
type BreakSet struct {
	ResistanceBreak []float64
	SupportBreak    []float64
	BullWickBreak   []float64
	BearWickBreak   []float64
}

// Detect evaluates each bar where both the previous bar's resistance and
// support levels are defined:
//
//	resistance_break[i] = 1 iff close[i-1] <= resistance[i-1] < close[i]
//	                          and volume_osc[i] > threshold
//	support_break[i]    = 1 iff close[i-1] >= support[i-1] > close[i]
//	                          and volume_osc[i] > threshold
//
// Wick sub-flags are derived only when the parent break fired:
//
//	bull_wick_break[i] = 1 iff resistance_break[i] and (open-low) > (close-open)
//	bear_wick_break[i] = 1 iff support_break[i] and (open-close) < (high-open)
//
// A NaN oscillator value fails the volume condition, so warm-up bars never
// break.
func (d *BreakDetector) Detect(open, high, low, close, resistance, support, volumeOsc []float64) *BreakSet {
	n := len(close)
	set := &BreakSet{
		ResistanceBreak: series.Zeros(n),
		SupportBreak:    series.Zeros(n),
		BullWickBreak:   series.Zeros(n),
		BearWickBreak:   series.Zeros(n),
	}

	for i := 1; i < n; i++ {
		if math.IsNaN(resistance[i-1]) || math.IsNaN(support[i-1]) {
			continue
		}
		if !(volumeOsc[i] > d.volumeThreshold) {
			continue
		}

		if close[i-1] <= resistance[i-1] && close[i] > resistance[i-1] {
			set.ResistanceBreak[i] = 1
			if open[i]-low[i] > close[i]-open[i] {
				set.BullWickBreak[i] = 1
			}
		} else if close[i-1] >= support[i-1] && close[i] < support[i-1] {
			set.SupportBreak[i] = 1
			if open[i]-close[i] < high[i]-open[i] {
				set.BearWickBreak[i] = 1
			}
		}
	}

	return set
}
