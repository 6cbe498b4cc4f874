// Package analysis provides shared types for the detection engine: pivot
// events, tracked levels, break classifications and pattern signals.
package analysis

// PivotKind represents the kind of a pivot extremum.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// PivotEvent represents a confirmed pivot bar. A pivot at index i is only
// knowable once bar i+rightBars has been observed; the event index refers to
// the pivot bar itself, not the confirmation bar.
type PivotEvent struct {
	Index int
	Price float64
	Kind  PivotKind
}

// LevelKind represents the kind of a tracked price level.
type LevelKind string

const (
	LevelResistance LevelKind = "resistance"
	LevelSupport    LevelKind = "support"
)

// Level is the currently active level of one kind. It is replaced, never
// merged, when a new pivot of matching kind arrives.
type Level struct {
	Price       float64
	Kind        LevelKind
	OriginIndex int
}

// Direction represents the trade direction of a pattern signal.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
	DirectionNone Direction = ""
)

// Column names produced by the detection pipeline.
const (
	ColPivotHigh       = "pivot_high"
	ColPivotLow        = "pivot_low"
	ColResistanceLevel = "resistance_level"
	ColSupportLevel    = "support_level"
	ColVolumeOsc       = "volume_osc"
	ColResistanceBreak = "resistance_break"
	ColSupportBreak    = "support_break"
	ColBullWickBreak   = "bull_wick_break"
	ColBearWickBreak   = "bear_wick_break"
	ColATR             = "atr"
	ColUpperEnvelope   = "upper_envelope"
	ColLowerEnvelope   = "lower_envelope"
	ColVolMAFast       = "vol_ma_fast"
	ColVolMASlow       = "vol_ma_slow"
	ColVolSpike        = "vol_spike"
	ColHAOpen          = "ha_open"
	ColHAHigh          = "ha_high"
	ColHALow           = "ha_low"
	ColHAClose         = "ha_close"
)
