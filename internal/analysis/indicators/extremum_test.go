package indicators

import (
	"errors"
	"math"
	"testing"

	"github.com/olibyte/binance-analysis/internal/analysis"
	apperrors "github.com/olibyte/binance-analysis/internal/errors"
)

func TestIsExtremum(t *testing.T) {
	values := []float64{1, 3, 2, 5, 4, 3, 2, 1, 2}

	tests := []struct {
		name  string
		index int
		left  int
		right int
		kind  ExtremumKind
		want  bool
	}{
		{"max at peak", 3, 2, 2, ExtremumMax, true},
		{"max off peak", 4, 2, 2, ExtremumMax, false},
		{"min at trough", 7, 2, 1, ExtremumMin, true},
		{"window past start", 1, 2, 2, ExtremumMax, false},
		{"window past end", 7, 2, 2, ExtremumMin, false},
		{"full window max", 3, 3, 5, ExtremumMax, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsExtremum(values, tt.index, tt.left, tt.right, tt.kind)
			if got != tt.want {
				t.Errorf("IsExtremum(%d, %d, %d) = %v, want %v", tt.index, tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestIsExtremum_TiesQualify(t *testing.T) {
	// Two equal maxima inside each other's windows both qualify.
	values := []float64{1, 5, 2, 5, 1}
	if !IsExtremum(values, 1, 1, 1, ExtremumMax) {
		t.Error("tied maximum at index 1 should qualify")
	}
	if !IsExtremum(values, 3, 1, 1, ExtremumMax) {
		t.Error("tied maximum at index 3 should qualify")
	}
}

func TestNewPivotScanner_RejectsBadWindows(t *testing.T) {
	for _, args := range [][2]int{{0, 15}, {15, 0}, {-1, 15}} {
		_, err := NewPivotScanner(args[0], args[1])
		if !errors.Is(err, apperrors.ErrConfigInvalid) {
			t.Errorf("NewPivotScanner(%d, %d) error = %v, want ErrConfigInvalid", args[0], args[1], err)
		}
	}
}

func TestPivotScanner_Scan40Bars(t *testing.T) {
	// 40 bars with a single clear high at index 20 and a single clear low
	// at index 18. With a 15/15 window only those bars can confirm.
	scanner, err := NewPivotScanner(15, 15)
	if err != nil {
		t.Fatal(err)
	}

	highs := make([]float64, 40)
	lows := make([]float64, 40)
	for i := range highs {
		highs[i] = 100
		lows[i] = 90
	}
	highs[20] = 120
	lows[18] = 80

	pivotHighs, pivotLows := scanner.Scan(highs, lows)

	if pivotHighs[20] != 120 {
		t.Errorf("pivotHighs[20] = %v, want 120", pivotHighs[20])
	}
	if pivotLows[18] != 80 {
		t.Errorf("pivotLows[18] = %v, want 80", pivotLows[18])
	}
	// Edge bars lack full windows and every interior bar's window contains
	// the spike, so nothing else confirms.
	for i := range pivotHighs {
		if i != 20 && !math.IsNaN(pivotHighs[i]) {
			t.Errorf("pivotHighs[%d] = %v, want NaN", i, pivotHighs[i])
		}
		if i != 18 && !math.IsNaN(pivotLows[i]) {
			t.Errorf("pivotLows[%d] = %v, want NaN", i, pivotLows[i])
		}
	}
}

func TestPivotScanner_EdgeMargins(t *testing.T) {
	scanner, err := NewPivotScanner(3, 4)
	if err != nil {
		t.Fatal(err)
	}

	highs := []float64{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	lows := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	pivotHighs, pivotLows := scanner.Scan(highs, lows)

	for i := range pivotHighs {
		inRange := i >= 3 && i+4 < len(highs)
		if inRange != Defined(pivotHighs[i]) {
			t.Errorf("pivotHighs[%d] defined = %v, want %v", i, Defined(pivotHighs[i]), inRange)
		}
		if inRange != Defined(pivotLows[i]) {
			t.Errorf("pivotLows[%d] defined = %v, want %v", i, Defined(pivotLows[i]), inRange)
		}
	}
}

func TestPivotScanner_Events(t *testing.T) {
	scanner, err := NewPivotScanner(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	highs := []float64{1, 5, 1, 1, 1}
	lows := []float64{3, 3, 0, 3, 3}
	pivotHighs, pivotLows := scanner.Scan(highs, lows)
	events := scanner.Events(pivotHighs, pivotLows)

	if len(events) != 2 {
		t.Fatalf("Events() len = %d, want 2", len(events))
	}
	if events[0].Kind != analysis.PivotHigh || events[0].Index != 1 || events[0].Price != 5 {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Kind != analysis.PivotLow || events[1].Index != 2 || events[1].Price != 0 {
		t.Errorf("events[1] = %+v", events[1])
	}
}
