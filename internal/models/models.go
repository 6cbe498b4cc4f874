// Package models provides domain models for the analysis application.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// IsBullish returns true if the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish returns true if the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// BodySize returns the absolute size of the candle body.
func (c Candle) BodySize() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low range of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// SignalDirection represents the direction of an emitted signal.
type SignalDirection string

const (
	SignalBuy  SignalDirection = "BUY"
	SignalSell SignalDirection = "SELL"
)

// PatternSignal represents a pattern match recorded one bar after detection.
type PatternSignal struct {
	Index     int
	Timestamp time.Time
	Pattern   string
	Direction SignalDirection
}

// BreakKind classifies a level break.
type BreakKind string

const (
	BreakResistance BreakKind = "RESISTANCE"
	BreakSupport    BreakKind = "SUPPORT"
)

// WickKind classifies the wick sub-type of a break.
type WickKind string

const (
	WickNone WickKind = "NONE"
	WickBull WickKind = "BULL"
	WickBear WickKind = "BEAR"
)

// BreakSignal represents a volume-confirmed level break.
type BreakSignal struct {
	Index     int
	Timestamp time.Time
	Kind      BreakKind
	Level     float64
	Close     float64
	VolumeOsc float64
	Wick      WickKind
}

// AnalysisRun records one pipeline execution for persistence.
type AnalysisRun struct {
	ID        string
	Symbol    string
	Timeframe string
	Bars      int
	StartedAt time.Time
	Duration  time.Duration
}
