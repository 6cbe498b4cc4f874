// Package patterns provides the candlestick pattern rule engine: a catalog of
// fixed-window predicates evaluated over the series, each emitting buy/sell
// flag columns offset one bar forward.
package patterns

import (
	"context"
	"sync"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
)

// Columns holds the price columns a rule reads.
type Columns struct {
	Open  []float64
	High  []float64
	Low   []float64
	Close []float64
}

// Inputs holds everything the engine needs for one run. Rounded carries the
// pre-rounded series consumed by exact-equality rules; ATR is the auxiliary
// input for range-validated rules.
type Inputs struct {
	Raw     Columns
	Rounded Columns
	ATR     []float64
}

// Tolerances holds the per-pattern numeric thresholds.
type Tolerances struct {
	ThreeCandlesBody float64
	QuintupletsBody  float64
	TweezersBody     float64
	HammerBody       float64
	HammerWick       float64
	SpinningTopBody  float64
	SpinningTopWick  float64
	InsideBody       float64
	TowerBody        float64
}

// Rule is one named pattern: a pure predicate over a fixed window of bars
// ending at the current index. The same predicate serves both directions; the
// view's polarity decides which comparisons flip.
type Rule struct {
	Name    string
	Window  int
	Rounded bool
	match   func(v view) bool
}

// BuyColumn returns the rule's buy column name.
func (r Rule) BuyColumn() string { return r.Name + "_buy" }

// SellColumn returns the rule's sell column name.
func (r Rule) SellColumn() string { return r.Name + "_sell" }

// Engine evaluates the rule catalog. Rules are independent and
// order-commutative, so they are distributed over a bounded worker pool; each
// rule owns its two output columns.
type Engine struct {
	rules   []Rule
	tol     Tolerances
	workers int
}

// NewEngine creates a pattern engine with the given tolerances.
func NewEngine(tol Tolerances, workers int) (*Engine, error) {
	if err := validateTolerances(tol); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		rules:   Catalog(),
		tol:     tol,
		workers: workers,
	}, nil
}

func validateTolerances(tol Tolerances) error {
	checks := map[string]float64{
		"three_candles_body": tol.ThreeCandlesBody,
		"quintuplets_body":   tol.QuintupletsBody,
		"tweezers_body":      tol.TweezersBody,
		"hammer_body":        tol.HammerBody,
		"hammer_wick":        tol.HammerWick,
		"spinning_top_body":  tol.SpinningTopBody,
		"spinning_top_wick":  tol.SpinningTopWick,
		"inside_body":        tol.InsideBody,
		"tower_body":         tol.TowerBody,
	}
	for field, val := range checks {
		if val <= 0 {
			return apperrors.NewConfigError(field, val, "must be positive")
		}
	}
	return nil
}

// Rules returns the catalog evaluated by this engine.
func (e *Engine) Rules() []Rule {
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	return rules
}

// Run evaluates every rule and returns the signal columns keyed by
// "<pattern>_buy" / "<pattern>_sell".
func (e *Engine) Run(ctx context.Context, in Inputs) (map[string][]float64, error) {
	return e.run(ctx, in, e.rules)
}

// RunSelected evaluates only the named rules. Restricting the catalog yields
// byte-identical columns to a full run limited to those names.
func (e *Engine) RunSelected(ctx context.Context, in Inputs, names []string) (map[string][]float64, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var rules []Rule
	for _, r := range e.rules {
		if wanted[r.Name] {
			rules = append(rules, r)
		}
	}
	return e.run(ctx, in, rules)
}

func (e *Engine) run(ctx context.Context, in Inputs, rules []Rule) (map[string][]float64, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	results := make(map[string][]float64, 2*len(rules))
	var mu sync.Mutex
	var wg sync.WaitGroup

	work := make(chan Rule, len(rules))

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rule := range work {
				select {
				case <-ctx.Done():
					return
				default:
					buy, sell := e.evalRule(rule, in)
					mu.Lock()
					results[rule.BuyColumn()] = buy
					results[rule.SellColumn()] = sell
					mu.Unlock()
				}
			}
		}()
	}

	for _, rule := range rules {
		work <- rule
	}
	close(work)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateInputs(in Inputs) error {
	n := len(in.Raw.Close)
	cols := map[string]int{
		"open":          len(in.Raw.Open),
		"high":          len(in.Raw.High),
		"low":           len(in.Raw.Low),
		"rounded_open":  len(in.Rounded.Open),
		"rounded_high":  len(in.Rounded.High),
		"rounded_low":   len(in.Rounded.Low),
		"rounded_close": len(in.Rounded.Close),
		"atr":           len(in.ATR),
	}
	for name, l := range cols {
		if l != n {
			return apperrors.NewInputError(name, -1, "column length does not match series length")
		}
	}
	return nil
}

// evalRule scans the series once per rule. The buy direction is evaluated
// first; the sell direction only when buy did not fire. A match at i writes
// to i+1, so a match on the last bar produces no visible signal. Indices with
// insufficient history never fire.
func (e *Engine) evalRule(rule Rule, in Inputs) (buy, sell []float64) {
	cols := in.Raw
	if rule.Rounded {
		cols = in.Rounded
	}
	n := len(cols.Close)
	buy = make([]float64, n)
	sell = make([]float64, n)

	for i := rule.Window - 1; i < n; i++ {
		v := view{
			opens:  cols.Open,
			highs:  cols.High,
			lows:   cols.Low,
			closes: cols.Close,
			atr:    in.ATR,
			tol:    e.tol,
			i:      i,
			pol:    1,
		}
		if rule.match(v) {
			if i+1 < n {
				buy[i+1] = 1
			}
			continue
		}
		v.pol = -1
		if rule.match(v) {
			if i+1 < n {
				sell[i+1] = 1
			}
		}
	}
	return buy, sell
}
