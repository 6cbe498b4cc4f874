package levels

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/series"
)

// breakFixture builds the column set for a two-bar crossing scenario with
// resistance 100 and support 90 active from bar 0.
type breakFixture struct {
	open, high, low, close []float64
	resistance, support    []float64
	volumeOsc              []float64
}

func newBreakFixture(n int) *breakFixture {
	f := &breakFixture{
		open:       make([]float64, n),
		high:       make([]float64, n),
		low:        make([]float64, n),
		close:      make([]float64, n),
		resistance: make([]float64, n),
		support:    make([]float64, n),
		volumeOsc:  series.NaNs(n),
	}
	for i := 0; i < n; i++ {
		f.open[i] = 95
		f.high[i] = 99
		f.low[i] = 91
		f.close[i] = 95
		f.resistance[i] = 100
		f.support[i] = 90
	}
	return f
}

func TestBreakDetector_ResistanceBreak(t *testing.T) {
	d, err := NewBreakDetector(20)
	if err != nil {
		t.Fatal(err)
	}

	// Bar 4 opens at 99 and closes at 101, crossing resistance 100 with
	// oscillator 25.
	f := newBreakFixture(6)
	f.close[3] = 99
	f.open[4] = 99
	f.close[4] = 101
	f.high[4] = 102
	f.low[4] = 98.5
	f.volumeOsc[4] = 25

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)

	if set.ResistanceBreak[4] != 1 {
		t.Error("expected resistance break at bar 4")
	}
	for i := range set.ResistanceBreak {
		if i != 4 && set.ResistanceBreak[i] != 0 {
			t.Errorf("unexpected resistance break at bar %d", i)
		}
		if set.SupportBreak[i] != 0 {
			t.Errorf("unexpected support break at bar %d", i)
		}
	}
	// open-low = 0.5, close-open = 2: lower wick does not dominate.
	if set.BullWickBreak[4] != 0 {
		t.Error("bull wick flag should not fire when body exceeds lower wick")
	}
}

func TestBreakDetector_BullWickSubFlag(t *testing.T) {
	d, _ := NewBreakDetector(20)

	f := newBreakFixture(4)
	f.close[1] = 99
	f.open[2] = 99.5
	f.close[2] = 100.5
	f.high[2] = 101
	f.low[2] = 96 // lower wick 3.5 > body 1.0
	f.volumeOsc[2] = 30

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)

	if set.ResistanceBreak[2] != 1 {
		t.Fatal("expected resistance break at bar 2")
	}
	if set.BullWickBreak[2] != 1 {
		t.Error("expected bull wick sub-flag at bar 2")
	}
}

func TestBreakDetector_SupportBreak(t *testing.T) {
	d, _ := NewBreakDetector(20)

	f := newBreakFixture(4)
	f.close[1] = 91
	f.open[2] = 91
	f.close[2] = 89
	f.low[2] = 88
	f.high[2] = 91.5
	f.volumeOsc[2] = 22

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)

	if set.SupportBreak[2] != 1 {
		t.Error("expected support break at bar 2")
	}
	// open-close = 2, high-open = 0.5: upper wick does not dominate.
	if set.BearWickBreak[2] != 0 {
		t.Error("bear wick flag should not fire when body exceeds upper wick")
	}
}

func TestBreakDetector_BearWickSubFlag(t *testing.T) {
	d, _ := NewBreakDetector(20)

	f := newBreakFixture(4)
	f.close[1] = 91
	f.open[2] = 90.5
	f.close[2] = 89.5
	f.low[2] = 89
	f.high[2] = 94 // upper wick 3.5 > body 1.0
	f.volumeOsc[2] = 22

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)

	if set.SupportBreak[2] != 1 {
		t.Fatal("expected support break at bar 2")
	}
	if set.BearWickBreak[2] != 1 {
		t.Error("expected bear wick sub-flag at bar 2")
	}
}

func TestBreakDetector_VolumeGate(t *testing.T) {
	d, _ := NewBreakDetector(20)

	f := newBreakFixture(4)
	f.close[1] = 99
	f.open[2] = 99
	f.close[2] = 101
	f.high[2] = 102

	tests := []struct {
		name string
		osc  float64
		want float64
	}{
		{"above threshold", 20.01, 1},
		{"exactly threshold", 20, 0},
		{"below threshold", 5, 0},
		{"nan oscillator", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.volumeOsc[2] = tt.osc
			set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)
			if set.ResistanceBreak[2] != tt.want {
				t.Errorf("ResistanceBreak[2] = %v, want %v", set.ResistanceBreak[2], tt.want)
			}
		})
	}
}

func TestBreakDetector_StrictCrossingRequired(t *testing.T) {
	d, _ := NewBreakDetector(20)

	// Close already above the level on the previous bar: no new crossing.
	f := newBreakFixture(4)
	f.close[1] = 100.5
	f.high[1] = 101
	f.open[2] = 100.5
	f.close[2] = 101.5
	f.high[2] = 102
	f.volumeOsc[2] = 30

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)
	if set.ResistanceBreak[2] != 0 {
		t.Error("break should require the previous close at or below the level")
	}

	// Closing exactly at the level is not a break.
	f = newBreakFixture(4)
	f.close[1] = 99
	f.open[2] = 99
	f.close[2] = 100
	f.high[2] = 100.5
	f.volumeOsc[2] = 30

	set = d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)
	if set.ResistanceBreak[2] != 0 {
		t.Error("closing exactly at the level should not break it")
	}
}

func TestBreakDetector_SkipsUndefinedLevels(t *testing.T) {
	d, _ := NewBreakDetector(20)

	// Support level still NaN at bar 1: the bar is skipped even though the
	// resistance crossing is otherwise valid.
	f := newBreakFixture(4)
	f.support[1] = math.NaN()
	f.close[1] = 99
	f.open[2] = 99
	f.close[2] = 101
	f.high[2] = 102
	f.volumeOsc[2] = 30

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)
	if set.ResistanceBreak[2] != 0 {
		t.Error("bars with an undefined prior level must be skipped")
	}
}

func TestNewBreakDetector_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		if _, err := NewBreakDetector(v); !errors.Is(err, apperrors.ErrConfigInvalid) {
			t.Errorf("NewBreakDetector(%v) error = %v, want ErrConfigInvalid", v, err)
		}
	}
}

func TestBreakDetector_WickImpliesParent(t *testing.T) {
	d, _ := NewBreakDetector(20)

	f := newBreakFixture(8)
	f.close[3] = 99
	f.open[4] = 99
	f.close[4] = 101
	f.high[4] = 102
	f.low[4] = 95
	f.volumeOsc[4] = 25

	set := d.Detect(f.open, f.high, f.low, f.close, f.resistance, f.support, f.volumeOsc)
	for i := range set.BullWickBreak {
		if set.BullWickBreak[i] == 1 && set.ResistanceBreak[i] != 1 {
			t.Errorf("bull wick at %d without resistance break", i)
		}
		if set.BearWickBreak[i] == 1 && set.SupportBreak[i] != 1 {
			t.Errorf("bear wick at %d without support break", i)
		}
	}
}
