package indicators

import (
	"math"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
)

// CalculateSMA calculates a simple moving average over raw values. Indices
// before the first full window are NaN.
func CalculateSMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nans(len(values))
	}
	result := nans(len(values))
	for i := period - 1; i < len(values); i++ {
		result[i] = mean(values[i-period+1 : i+1])
	}
	return result
}

// CalculateEMA calculates an exponential moving average over raw values with
// smoothing factor 2/(period+1). The first value is seeded with the simple
// average of the initial period (standard warm-up); indices before the seed
// are NaN.
func CalculateEMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nans(len(values))
	}

	result := nans(len(values))
	multiplier := 2.0 / float64(period+1)

	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result
}

// VolumeOscillator computes the two-EMA volume momentum signal:
// 100 * (emaFast - emaSlow) / emaSlow. It has no dependency on pivot or
// level state.
type VolumeOscillator struct {
	fastPeriod int
	slowPeriod int
}

// NewVolumeOscillator creates a volume oscillator with the given EMA periods.
func NewVolumeOscillator(fastPeriod, slowPeriod int) (*VolumeOscillator, error) {
	if fastPeriod <= 0 {
		return nil, apperrors.NewConfigError("vol_fast_period", fastPeriod, "must be positive")
	}
	if slowPeriod <= 0 {
		return nil, apperrors.NewConfigError("vol_slow_period", slowPeriod, "must be positive")
	}
	if fastPeriod >= slowPeriod {
		return nil, apperrors.NewConfigError("vol_fast_period", fastPeriod, "must be less than vol_slow_period")
	}
	return &VolumeOscillator{fastPeriod: fastPeriod, slowPeriod: slowPeriod}, nil
}

// Calculate produces the oscillator column. Indices inside the slow EMA
// warm-up are NaN, as is any index where the slow EMA is zero: a zero
// denominator degrades that single index, never the run.
func (v *VolumeOscillator) Calculate(volumes []float64) []float64 {
	fast := CalculateEMA(volumes, v.fastPeriod)
	slow := CalculateEMA(volumes, v.slowPeriod)

	osc := nans(len(volumes))
	for i := range volumes {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) || slow[i] == 0 {
			continue
		}
		osc[i] = 100 * (fast[i] - slow[i]) / slow[i]
	}
	return osc
}
