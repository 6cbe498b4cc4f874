package patterns

// view is a polarity-aware window over the price columns, anchored at index
// i. k counts bars back from the anchor: open(0) is the current bar's open,
// close(2) the close two bars back.
//
// The polarity is +1 when evaluating the buy direction and -1 for sell. The
// sell direction of every rule is the price mirror of its buy direction:
// comparisons flip and high/low swap roles. ceil/floor and above/dist encode
// that mirror so each rule is written once, against the buy case.
type view struct {
	opens  []float64
	highs  []float64
	lows   []float64
	closes []float64
	atr    []float64

	tol Tolerances
	i   int
	pol float64
}

func (v view) open(k int) float64  { return v.opens[v.i-k] }
func (v view) close(k int) float64 { return v.closes[v.i-k] }

// ceil returns the polarity-side extreme of bar k: the high for buy, the low
// for sell.
func (v view) ceil(k int) float64 {
	if v.pol > 0 {
		return v.highs[v.i-k]
	}
	return v.lows[v.i-k]
}

// floor returns the opposite extreme of bar k: the low for buy, the high for
// sell.
func (v view) floor(k int) float64 {
	if v.pol > 0 {
		return v.lows[v.i-k]
	}
	return v.highs[v.i-k]
}

// bodyCeil returns the body edge nearer the ceil: max(open, close) for buy,
// min for sell.
func (v view) bodyCeil(k int) float64 {
	o, c := v.open(k), v.close(k)
	if v.pol > 0 == (o > c) {
		return o
	}
	return c
}

// bodyFloor returns the body edge nearer the floor: min(open, close) for
// buy, max for sell.
func (v view) bodyFloor(k int) float64 {
	o, c := v.open(k), v.close(k)
	if v.pol > 0 == (o > c) {
		return c
	}
	return o
}

// above reports a > b in polarity space.
func (v view) above(a, b float64) bool { return v.pol*a > v.pol*b }

// aboveEq reports a >= b in polarity space.
func (v view) aboveEq(a, b float64) bool { return v.pol*a >= v.pol*b }

// dist returns the signed distance from b up to a in polarity space.
func (v view) dist(a, b float64) float64 { return v.pol * (a - b) }

// body returns the signed body of bar k: positive when the candle has the
// polarity's color (bullish for buy, bearish for sell).
func (v view) body(k int) float64 { return v.pol * (v.close(k) - v.open(k)) }

// absBody returns the unsigned body of bar k.
func (v view) absBody(k int) float64 {
	b := v.close(k) - v.open(k)
	if b < 0 {
		return -b
	}
	return b
}

// up reports that bar k has the polarity's color.
func (v view) up(k int) bool { return v.body(k) > 0 }

// down reports that bar k has the counter color.
func (v view) down(k int) bool { return v.body(k) < 0 }

// doji reports that bar k opened and closed at the same price.
func (v view) doji(k int) bool { return v.close(k) == v.open(k) }

// barRange returns the unsigned high-low span of bar k.
func (v view) barRange(k int) float64 { return v.highs[v.i-k] - v.lows[v.i-k] }
