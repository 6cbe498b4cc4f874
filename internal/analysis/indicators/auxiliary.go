package indicators

import (
	"math"

	"github.com/olibyte/binance-analysis/internal/models"
)

// CalculateATR calculates the average true range as a rolling simple mean of
// true range. The first bar's true range is its high-low span; indices
// before the first full window are NaN.
func CalculateATR(highs, lows, closes []float64, period int) []float64 {
	if period <= 0 || len(highs) == 0 {
		return nans(len(highs))
	}

	tr := make([]float64, len(highs))
	tr[0] = highs[0] - lows[0]
	for i := 1; i < len(highs); i++ {
		hl := highs[i] - lows[i]
		hc := abs(highs[i] - closes[i-1])
		lc := abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	return CalculateSMA(tr, period)
}

// CalculateEnvelopes computes rolling-mean envelopes of the high and low
// columns over the given lookback. Used as optional strategy inputs, not by
// the break detector.
func CalculateEnvelopes(highs, lows []float64, lookback int) (upper, lower []float64) {
	return CalculateSMA(highs, lookback), CalculateSMA(lows, lookback)
}

// VolumeMAs computes fast/slow simple moving averages of volume plus a spike
// flag column (1 where volume exceeds spikeRatio times the fast MA).
func VolumeMAs(volumes []float64, fastPeriod, slowPeriod int, spikeRatio float64) (fast, slow, spike []float64) {
	fast = CalculateSMA(volumes, fastPeriod)
	slow = CalculateSMA(volumes, slowPeriod)
	spike = make([]float64, len(volumes))
	for i := range volumes {
		if Defined(fast[i]) && volumes[i] > spikeRatio*fast[i] {
			spike[i] = 1
		}
	}
	return fast, slow, spike
}

// HeikinAshi computes the Heikin-Ashi transform of the given bars using the
// standard recursive definition.
func HeikinAshi(candles []models.Candle) (open, high, low, close []float64) {
	n := len(candles)
	open = make([]float64, n)
	high = make([]float64, n)
	low = make([]float64, n)
	close = make([]float64, n)
	if n == 0 {
		return
	}

	for i, c := range candles {
		close[i] = (c.Open + c.High + c.Low + c.Close) / 4
		if i == 0 {
			open[i] = (c.Open + c.Close) / 2
		} else {
			open[i] = (open[i-1] + close[i-1]) / 2
		}
		high[i] = math.Max(c.High, math.Max(open[i], close[i]))
		low[i] = math.Min(c.Low, math.Min(open[i], close[i]))
	}
	return open, high, low, close
}
