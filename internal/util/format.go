package util

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a study duration as "2h 5m", "5m" or "40s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(math.Round(d.Seconds())))
}

// FormatSeconds is FormatDuration for a float number of seconds.
func FormatSeconds(seconds float64) string {
	return FormatDuration(time.Duration(seconds * float64(time.Second)))
}

// FormatClock renders a stopwatch face, e.g. "01:02:03".
func FormatClock(hours, minutes, seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatValue renders a chart value in its unit with precision that suits it.
func FormatValue(v float64, unit string) string {
	switch unit {
	case "minutes":
		return fmt.Sprintf("%.0f min", v)
	case "hours":
		return fmt.Sprintf("%.1f h", v)
	default:
		return fmt.Sprintf("%.2f %s", v, unit)
	}
}

// FormatPercent renders a share as "42.5%".
func FormatPercent(part, total float64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/total*100)
}
