package ui

import (
	"fmt"
	"math"
	"strconv"
)

// FormatTime renders seconds as m:ss, or h:mm:ss past the hour. Unknown or
// negative values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatRate renders a playback rate the way the rate menu lists it
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "x"
}

// FormatPercent renders a 0..1 level as a whole percentage
func FormatPercent(level float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(level*100)))
}
