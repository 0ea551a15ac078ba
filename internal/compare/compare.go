// Package compare computes current-vs-previous-period deltas with safe
// zero handling.
package compare

import (
	"math"
	"strconv"
)

// Comparison is the totals for two equal-length, non-overlapping windows
// and the signed percentage change between them. ChangePct is a string
// with one fixed decimal place ("12.3", "-4.0") so UI consumers render a
// stable width; the sign is preserved so callers can colorize up/down
// without re-deriving it.
type Comparison struct {
	Current   int64  `json:"current"`
	Previous  int64  `json:"previous"`
	ChangePct string `json:"change_pct"`
}

// Change computes the signed percentage change from previous to current.
// When previous is 0 there is no baseline to compare against, so ChangePct
// is exactly "0" for any current value; the result is never "Infinity",
// "NaN", or an empty string.
func Change(current, previous int64) Comparison {
	c := Comparison{Current: current, Previous: previous}
	if previous == 0 {
		c.ChangePct = "0"
		return c
	}
	pct := (float64(current-previous) / float64(previous)) * 100
	c.ChangePct = FormatPct(pct)
	return c
}

// FormatPct rounds a percentage to one decimal and renders it as a string
// ("12.3") so chart and badge consumers see a stable fixed-decimal value.
func FormatPct(pct float64) string {
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', 1, 64)
}
