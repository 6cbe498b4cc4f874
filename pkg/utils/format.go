// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatPrice formats a price with thousands separators and the given number
// of decimal places. NaN renders as a dash so undefined values stay readable
// in tables.
func FormatPrice(value float64, precision int) string {
	if math.IsNaN(value) {
		return "-"
	}
	str := fmt.Sprintf("%.*f", precision, math.Abs(value))
	parts := strings.SplitN(str, ".", 2)
	formatted := groupThousands(parts[0])
	if len(parts) == 2 {
		formatted += "." + parts[1]
	}
	if value < 0 {
		formatted = "-" + formatted
	}
	return formatted
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "," + result
		s = s[:len(s)-3]
	}
	return s + "," + result
}

// FormatPercent formats a percentage with sign. NaN renders as a dash.
func FormatPercent(value float64) string {
	if math.IsNaN(value) {
		return "-"
	}
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatVolume formats a volume with compact suffixes for large values.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1e9:
		return fmt.Sprintf("%.2fB", volume/1e9)
	case volume >= 1e6:
		return fmt.Sprintf("%.2fM", volume/1e6)
	case volume >= 1e3:
		return fmt.Sprintf("%.2fK", volume/1e3)
	default:
		return fmt.Sprintf("%.2f", volume)
	}
}

// FormatQuantity formats an integer with thousands separators.
func FormatQuantity(qty int64) string {
	if qty < 0 {
		return "-" + groupThousands(fmt.Sprintf("%d", -qty))
	}
	return groupThousands(fmt.Sprintf("%d", qty))
}

// FormatDuration renders a duration with millisecond precision for short
// runs and second precision otherwise.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// FormatTimestamp renders a timestamp in the compact form used in tables.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
