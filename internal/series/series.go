// Package series provides the immutable columnar representation of OHLCV bars
// that all detectors operate on. Bars are validated once at construction;
// detectors append derived columns but never mutate bar fields.
package series

import (
	"math"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/models"
)

// Series is an ordered, fixed-length sequence of bars plus named derived
// columns. Undefined numeric values are NaN; flag columns default to 0.
// Slices returned by accessors share the underlying storage and must not be
// modified by callers.
type Series struct {
	bars   []models.Candle
	open   []float64
	high   []float64
	low    []float64
	close  []float64
	volume []float64

	names   []string
	columns map[string][]float64
}

// New validates the candles and builds a Series. Validation happens up front:
// empty input, non-finite fields, negative volume, OHLC ordering violations
// and non-increasing timestamps are all rejected before any column is
// computed.
func New(candles []models.Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, apperrors.NewInputError("candles", -1, "empty series")
	}

	s := &Series{
		bars:    make([]models.Candle, len(candles)),
		open:    make([]float64, len(candles)),
		high:    make([]float64, len(candles)),
		low:     make([]float64, len(candles)),
		close:   make([]float64, len(candles)),
		volume:  make([]float64, len(candles)),
		columns: make(map[string][]float64),
	}
	copy(s.bars, candles)

	for i, c := range candles {
		if err := validateBar(c, i); err != nil {
			return nil, err
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return nil, apperrors.NewInputError("timestamp", i, "timestamps must be strictly increasing")
		}
		s.open[i] = c.Open
		s.high[i] = c.High
		s.low[i] = c.Low
		s.close[i] = c.Close
		s.volume[i] = c.Volume
	}

	return s, nil
}

func validateBar(c models.Candle, i int) error {
	fields := map[string]float64{
		"open":   c.Open,
		"high":   c.High,
		"low":    c.Low,
		"close":  c.Close,
		"volume": c.Volume,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewInputError(name, i, "value is not finite")
		}
	}
	if c.Volume < 0 {
		return apperrors.NewInputError("volume", i, "volume must be non-negative")
	}
	if c.Low > c.Open || c.Low > c.Close {
		return apperrors.NewInputError("low", i, "low above open/close")
	}
	if c.High < c.Open || c.High < c.Close {
		return apperrors.NewInputError("high", i, "high below open/close")
	}
	return nil
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at index i.
func (s *Series) Bar(i int) models.Candle {
	return s.bars[i]
}

// Bars returns all bars.
func (s *Series) Bars() []models.Candle {
	return s.bars
}

// Open returns the open price column.
func (s *Series) Open() []float64 { return s.open }

// High returns the high price column.
func (s *Series) High() []float64 { return s.high }

// Low returns the low price column.
func (s *Series) Low() []float64 { return s.low }

// Close returns the close price column.
func (s *Series) Close() []float64 { return s.close }

// Volume returns the volume column.
func (s *Series) Volume() []float64 { return s.volume }

// AddColumn appends a derived column. Columns are append-only: re-adding an
// existing name or adding a column of the wrong length is an error.
func (s *Series) AddColumn(name string, values []float64) error {
	if _, ok := s.columns[name]; ok {
		return apperrors.Wrapf(apperrors.ErrColumnExists, "column %q", name)
	}
	if len(values) != len(s.bars) {
		return apperrors.NewInputError(name, -1, "column length does not match series length")
	}
	s.columns[name] = values
	s.names = append(s.names, name)
	return nil
}

// Column returns the derived column with the given name.
func (s *Series) Column(name string) ([]float64, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// ColumnNames returns derived column names in insertion order.
func (s *Series) ColumnNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Round returns a new Series whose price columns are rounded to the given
// number of decimals. Derived columns are not carried over: rounding is a
// pre-processing step applied before exact-equality pattern rules, not a
// transformation of computed output.
func (s *Series) Round(precision int) *Series {
	rounded := &Series{
		bars:    make([]models.Candle, len(s.bars)),
		open:    roundColumn(s.open, precision),
		high:    roundColumn(s.high, precision),
		low:     roundColumn(s.low, precision),
		close:   roundColumn(s.close, precision),
		volume:  make([]float64, len(s.volume)),
		columns: make(map[string][]float64),
	}
	copy(rounded.volume, s.volume)
	for i, b := range s.bars {
		b.Open = rounded.open[i]
		b.High = rounded.high[i]
		b.Low = rounded.low[i]
		b.Close = rounded.close[i]
		rounded.bars[i] = b
	}
	return rounded
}

func roundColumn(values []float64, precision int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = RoundTo(v, precision)
	}
	return out
}

// RoundTo rounds v to the given number of decimals, half away from zero.
// NaN passes through unchanged.
func RoundTo(v float64, precision int) float64 {
	if math.IsNaN(v) {
		return v
	}
	pow := math.Pow(10, float64(precision))
	return math.Round(v*pow) / pow
}

// NaNs returns a column of length n filled with NaN.
func NaNs(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}

// Zeros returns a flag column of length n filled with 0.
func Zeros(n int) []float64 {
	return make([]float64, n)
}
