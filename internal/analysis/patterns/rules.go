package patterns

import "math"

// Catalog returns the full pattern rule catalog. Every rule is written
// against its buy direction; the sell direction is the exact price mirror.
// Window is the number of bars the predicate reads, ending at the anchor.
func Catalog() []Rule {
	return []Rule{
		{Name: "marubozu", Window: 1, match: marubozu},
		{Name: "three_candles", Window: 4, match: threeCandles},
		{Name: "three_methods", Window: 5, match: threeMethods},
		{Name: "tasuki", Window: 3, match: tasuki},
		{Name: "hikkake", Window: 5, match: hikkake},
		{Name: "quintuplets", Window: 5, match: quintuplets},
		{Name: "doji", Window: 3, match: doji},
		{Name: "harami", Window: 3, match: harami},
		{Name: "tweezers", Window: 3, Rounded: true, match: tweezers},
		{Name: "stick_sandwich", Window: 4, match: stickSandwich},
		{Name: "hammer", Window: 3, match: hammer},
		{Name: "star", Window: 3, match: star},
		{Name: "piercing", Window: 3, match: piercing},
		{Name: "engulfing", Window: 3, match: engulfing},
		{Name: "abandoned_baby", Window: 3, match: abandonedBaby},
		{Name: "spinning_top", Window: 3, match: spinningTop},
		{Name: "inside_up_down", Window: 3, match: insideUpDown},
		{Name: "tower", Window: 5, match: tower},
		{Name: "on_neck", Window: 2, Rounded: true, match: onNeck},
		{Name: "double_trouble", Window: 2, match: doubleTrouble},
		{Name: "bottle", Window: 2, match: bottle},
		{Name: "slingshot", Window: 4, match: slingshot},
		{Name: "h_pattern", Window: 3, match: hPattern},
		{Name: "doppelganger", Window: 3, Rounded: true, match: doppelganger},
		{Name: "blockade", Window: 4, match: blockade},
		{Name: "barrier", Window: 3, Rounded: true, match: barrier},
		{Name: "mirror", Window: 4, Rounded: true, match: mirror},
		{Name: "shrinking", Window: 5, Rounded: true, match: shrinking},
		{Name: "euphoria", Window: 3, match: euphoria},
	}
}

// marubozu: a single candle with no wicks on either side.
func marubozu(v view) bool {
	return v.up(0) &&
		v.ceil(0) == v.close(0) &&
		v.floor(0) == v.open(0)
}

// threeCandles: three consecutive large candles, each closing beyond the
// previous close, extending the move started before them.
func threeCandles(v view) bool {
	b := v.tol.ThreeCandlesBody
	return v.body(0) > b &&
		v.body(1) > b &&
		v.body(2) > b &&
		v.above(v.close(0), v.close(1)) &&
		v.above(v.close(1), v.close(2)) &&
		v.above(v.close(2), v.close(3))
}

// threeMethods: a large candle, three contained counter candles, then a
// breakout candle beyond the first candle's extreme.
func threeMethods(v view) bool {
	return v.up(0) &&
		v.above(v.close(0), v.ceil(4)) &&
		v.above(v.floor(1), v.floor(0)) &&
		v.above(v.close(4), v.close(1)) &&
		v.above(v.floor(1), v.floor(4)) &&
		v.above(v.close(4), v.close(2)) &&
		v.above(v.floor(2), v.floor(4)) &&
		v.above(v.close(4), v.close(3)) &&
		v.above(v.floor(3), v.floor(4)) &&
		v.up(4)
}

// tasuki: gap continuation where the third candle pulls back into the gap
// without closing it.
func tasuki(v view) bool {
	return v.down(0) &&
		v.above(v.open(1), v.close(0)) &&
		v.above(v.close(0), v.close(2)) &&
		v.up(1) &&
		v.above(v.open(1), v.close(2)) &&
		v.up(2)
}

// hikkake: an inside bar, two bars faking a move against the trend, then a
// breakout beyond the inside bar's extreme.
func hikkake(v view) bool {
	return v.above(v.close(0), v.ceil(3)) &&
		v.above(v.close(0), v.close(4)) &&
		v.above(v.open(0), v.floor(1)) &&
		v.above(v.close(0), v.close(1)) &&
		v.aboveEq(v.ceil(3), v.ceil(1)) &&
		v.above(v.open(0), v.floor(2)) &&
		v.above(v.close(0), v.close(2)) &&
		v.aboveEq(v.ceil(3), v.ceil(2)) &&
		v.above(v.ceil(4), v.ceil(3)) &&
		v.above(v.floor(3), v.floor(4)) &&
		v.up(4)
}

// quintuplets: five small same-color candles with progressively advancing
// closes.
func quintuplets(v view) bool {
	b := v.tol.QuintupletsBody
	for k := 0; k <= 4; k++ {
		if !v.up(k) || v.body(k) >= b {
			return false
		}
	}
	for k := 0; k <= 3; k++ {
		if !v.above(v.close(k), v.close(k+1)) {
			return false
		}
	}
	return true
}

// doji: an open==close bar after a counter candle, confirmed by a candle in
// the signal direction.
func doji(v view) bool {
	return v.up(0) &&
		v.above(v.close(0), v.close(1)) &&
		v.doji(1) &&
		v.down(2)
}

// harami: a small candle contained, body and range, inside the prior counter
// candle.
func harami(v view) bool {
	return v.above(v.open(1), v.close(0)) &&
		v.above(v.open(0), v.close(1)) &&
		v.above(v.ceil(1), v.ceil(0)) &&
		v.above(v.floor(0), v.floor(1)) &&
		v.up(0) &&
		v.down(1) &&
		v.down(2)
}

// tweezers: consecutive bars sharing the same floor extreme, the second
// flipping direction with a small body. Evaluated on the rounded series.
func tweezers(v view) bool {
	return v.up(0) &&
		v.floor(0) == v.floor(1) &&
		v.body(0) < v.tol.TweezersBody &&
		v.down(1) &&
		v.down(2)
}

// stickSandwich: two counter candles engulfing-by-range a middle candle of
// the signal color, continuing a prior decline.
func stickSandwich(v view) bool {
	return v.down(0) &&
		v.above(v.ceil(0), v.ceil(1)) &&
		v.above(v.floor(1), v.floor(0)) &&
		v.up(1) &&
		v.down(2) &&
		v.above(v.ceil(2), v.ceil(1)) &&
		v.above(v.floor(1), v.floor(2)) &&
		v.above(v.close(3), v.close(2)) &&
		v.down(3)
}

// hammer: a small-bodied bar with a long floor-side wick closing at its ceil
// extreme, after a counter candle, confirmed in the signal direction.
func hammer(v view) bool {
	return v.up(0) &&
		v.absBody(1) < v.tol.HammerBody &&
		v.dist(v.bodyFloor(1), v.floor(1)) > 2*v.tol.HammerWick &&
		v.close(1) == v.ceil(1) &&
		v.down(2)
}

// star: the middle candle's body sits entirely beyond both neighbours' body
// reference points (morning/evening star).
func star(v view) bool {
	return v.up(0) &&
		v.above(v.open(0), v.bodyCeil(1)) &&
		v.above(v.close(2), v.bodyCeil(1)) &&
		v.down(2)
}

// piercing: a candle opening beyond the prior counter close and closing
// inside its body without exceeding its open.
func piercing(v view) bool {
	return v.up(0) &&
		v.above(v.open(1), v.close(0)) &&
		v.above(v.close(0), v.close(1)) &&
		v.above(v.close(1), v.open(0)) &&
		v.down(1) &&
		v.down(2)
}

// engulfing: the current body engulfs the prior counter body.
func engulfing(v view) bool {
	return v.up(0) &&
		v.above(v.close(1), v.open(0)) &&
		v.above(v.close(0), v.open(1)) &&
		v.down(1) &&
		v.down(2)
}

// abandonedBaby: a doji fully gapped away from both neighbours.
func abandonedBaby(v view) bool {
	return v.up(0) &&
		v.doji(1) &&
		v.above(v.floor(0), v.ceil(1)) &&
		v.above(v.floor(2), v.ceil(1)) &&
		v.down(2)
}

// spinningTop: a small-bodied middle bar with wicks on both sides between a
// strong counter candle and a strong confirmation.
func spinningTop(v view) bool {
	b, w := v.tol.SpinningTopBody, v.tol.SpinningTopWick
	return v.body(0) > b &&
		v.dist(v.ceil(1), v.close(1)) >= w &&
		v.dist(v.open(1), v.floor(1)) >= w &&
		v.body(1) < b &&
		v.up(1) &&
		v.down(2) &&
		-v.body(2) > b
}

// insideUpDown: a harami followed by a breakout past the mother candle's
// open.
func insideUpDown(v view) bool {
	b := v.tol.InsideBody
	return v.down(2) &&
		v.absBody(2) > b &&
		v.above(v.open(2), v.close(1)) &&
		v.above(v.open(1), v.close(2)) &&
		v.up(1) &&
		v.above(v.close(0), v.open(2)) &&
		v.up(0) &&
		v.absBody(0) > b
}

// tower: a strong counter candle, a basing dip in the middle bars, then a
// strong candle in the signal direction.
func tower(v view) bool {
	b := v.tol.TowerBody
	return v.up(0) &&
		v.body(0) > b &&
		v.above(v.floor(1), v.floor(2)) &&
		v.above(v.floor(3), v.floor(2)) &&
		v.down(4) &&
		v.dist(v.open(4), v.close(0)) > b
}

// onNeck: the current candle closes exactly at the prior counter candle's
// close. Evaluated on the rounded series.
func onNeck(v view) bool {
	return v.up(0) &&
		v.close(0) == v.close(1) &&
		v.above(v.close(1), v.open(0)) &&
		v.down(1)
}

// doubleTrouble: two same-color candles where the second's range exceeds
// twice the prior bar's ATR with a growing body.
func doubleTrouble(v view) bool {
	a := v.atr[v.i-1]
	if math.IsNaN(a) || a == 0 {
		return false
	}
	return v.up(0) &&
		v.above(v.close(0), v.close(1)) &&
		v.up(1) &&
		v.barRange(0) > 2*a &&
		v.body(0) > v.body(1)
}

// bottle: a candle with no floor-side wick opening beyond the prior close in
// the counter direction.
func bottle(v view) bool {
	return v.up(0) &&
		v.open(0) == v.floor(0) &&
		v.up(1) &&
		v.above(v.close(1), v.open(0))
}

// slingshot: breakout, shallow pullback holding the breakout bar's extreme,
// then a renewed close beyond both pullback bars.
func slingshot(v view) bool {
	return v.above(v.close(0), v.ceil(1)) &&
		v.above(v.close(0), v.ceil(2)) &&
		v.aboveEq(v.ceil(3), v.floor(0)) &&
		v.up(0) &&
		v.aboveEq(v.close(1), v.ceil(3)) &&
		v.aboveEq(v.floor(2), v.floor(3)) &&
		v.up(2) &&
		v.above(v.close(2), v.ceil(3)) &&
		v.aboveEq(v.ceil(2), v.ceil(1))
}

// hPattern: a doji between two candles of the signal color, the last closing
// beyond the doji with a held floor.
func hPattern(v view) bool {
	return v.up(0) &&
		v.above(v.close(0), v.close(1)) &&
		v.above(v.floor(0), v.floor(1)) &&
		v.doji(1) &&
		v.up(2) &&
		v.above(v.ceil(1), v.ceil(2))
}

// doppelganger: twin bars sharing both extremes after a counter move.
// Evaluated on the rounded series.
func doppelganger(v view) bool {
	return v.down(2) &&
		v.above(v.open(2), v.close(1)) &&
		v.highs[v.i] == v.highs[v.i-1] &&
		v.lows[v.i] == v.lows[v.i-1]
}

// blockade: three bars stabilizing between the first counter candle's floor
// and close, then a breakout beyond its ceil.
func blockade(v view) bool {
	return v.down(3) &&
		v.above(v.open(3), v.close(2)) &&
		v.aboveEq(v.floor(2), v.floor(3)) &&
		v.aboveEq(v.close(3), v.floor(2)) &&
		v.aboveEq(v.floor(1), v.floor(3)) &&
		v.aboveEq(v.close(3), v.floor(1)) &&
		v.aboveEq(v.floor(0), v.floor(3)) &&
		v.aboveEq(v.close(3), v.floor(0)) &&
		v.up(0) &&
		v.above(v.close(0), v.ceil(3))
}

// barrier: three bars sharing the same floor extreme, the last flipping to
// the signal color. Evaluated on the rounded series.
func barrier(v view) bool {
	return v.up(0) &&
		v.down(1) &&
		v.down(2) &&
		v.floor(0) == v.floor(1) &&
		v.floor(0) == v.floor(2)
}

// mirror: a U-turn where the middle pair share a close and the last bar's
// ceil matches the first bar's. Evaluated on the rounded series.
func mirror(v view) bool {
	return v.up(0) &&
		v.ceil(0) == v.ceil(3) &&
		v.above(v.close(0), v.close(1)) &&
		v.above(v.close(0), v.close(2)) &&
		v.above(v.close(0), v.close(3)) &&
		v.down(3) &&
		v.close(1) == v.close(2)
}

// shrinking: progressively smaller bodies and contracting ceils after a
// counter candle, resolved by a breakout. Evaluated on the rounded series.
func shrinking(v view) bool {
	return v.down(4) &&
		v.up(0) &&
		v.above(v.close(0), v.ceil(3)) &&
		v.absBody(3) < v.absBody(4) &&
		v.absBody(2) < v.absBody(3) &&
		v.absBody(1) < v.absBody(2) &&
		v.above(v.ceil(2), v.ceil(1)) &&
		v.above(v.ceil(3), v.ceil(2))
}

// euphoria: three counter-color candles with advancing closes and growing
// bodies; exhaustion read as a contrarian signal.
func euphoria(v view) bool {
	return v.down(0) &&
		v.down(1) &&
		v.down(2) &&
		v.above(v.close(1), v.close(0)) &&
		v.above(v.close(2), v.close(1)) &&
		-v.body(0) > -v.body(1) &&
		-v.body(1) > -v.body(2)
}
