package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/olibyte/binance-analysis/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Float64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		// Ensure OHLC constraints: High >= max(Open, Close) and Low <= min(Open, Close)
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.Volume < 0 {
			c.Volume = 1000
		}
		return c
	})
}

// candleSliceGen generates a slice of valid candles with increasing timestamps
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		if len(candles) == 0 {
			candles = []models.Candle{{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}}
		}
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range candles {
			candles[i].Timestamp = base.Add(time.Duration(i) * time.Hour)
			// Re-validate each candle after shrinking
			candles[i].High = math.Max(candles[i].High, math.Max(candles[i].Open, candles[i].Close))
			candles[i].Low = math.Min(candles[i].Low, math.Min(candles[i].Open, candles[i].Close))
			if candles[i].Volume < 0 {
				candles[i].Volume = 1000
			}
		}
		return candles
	})
}

func highsOf(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

func lowsOf(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

func volumesOf(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}

func TestProperty_PivotIsWindowExtremum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("pivot highs/lows are window extrema carrying the bar price", prop.ForAll(
		func(candles []models.Candle) bool {
			scanner, err := NewPivotScanner(3, 3)
			if err != nil {
				return false
			}
			highs := highsOf(candles)
			lows := lowsOf(candles)
			pivotHighs, pivotLows := scanner.Scan(highs, lows)

			for i := range highs {
				wantHigh := IsExtremum(highs, i, 3, 3, ExtremumMax)
				if wantHigh != Defined(pivotHighs[i]) {
					return false
				}
				if wantHigh && pivotHighs[i] != highs[i] {
					return false
				}
				wantLow := IsExtremum(lows, i, 3, 3, ExtremumMin)
				if wantLow != Defined(pivotLows[i]) {
					return false
				}
				if wantLow && pivotLows[i] != lows[i] {
					return false
				}
			}
			return true
		},
		candleSliceGen(10, 80),
	))

	properties.TestingRun(t)
}

func TestProperty_PivotEdgeBarsNeverConfirm(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("bars without full windows carry NaN", prop.ForAll(
		func(candles []models.Candle) bool {
			scanner, err := NewPivotScanner(4, 5)
			if err != nil {
				return false
			}
			pivotHighs, pivotLows := scanner.Scan(highsOf(candles), lowsOf(candles))

			for i := range pivotHighs {
				if i >= 4 && i+5 < len(pivotHighs) {
					continue
				}
				if Defined(pivotHighs[i]) || Defined(pivotLows[i]) {
					return false
				}
			}
			return true
		},
		candleSliceGen(5, 60),
	))

	properties.TestingRun(t)
}

func TestProperty_VolumeOscillatorDefinedAfterWarmup(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("oscillator is NaN during warm-up and finite after", prop.ForAll(
		func(candles []models.Candle) bool {
			osc, err := NewVolumeOscillator(5, 10)
			if err != nil {
				return false
			}
			values := osc.Calculate(volumesOf(candles))

			for i, v := range values {
				if i < 9 {
					if !math.IsNaN(v) {
						return false
					}
					continue
				}
				// Positive volumes keep the slow EMA positive, so the
				// oscillator is always defined past the warm-up.
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return false
				}
			}
			return true
		},
		candleSliceGen(15, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ATRNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ATR is non-negative wherever defined", prop.ForAll(
		func(candles []models.Candle) bool {
			closes := make([]float64, len(candles))
			for i, c := range candles {
				closes[i] = c.Close
			}
			atr := CalculateATR(highsOf(candles), lowsOf(candles), closes, 14)
			for _, v := range atr {
				if math.IsNaN(v) {
					continue
				}
				if v < 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}
