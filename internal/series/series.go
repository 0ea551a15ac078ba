// Package series builds zero-filled daily time series over a requested
// window. Charts index points by position, so a day with no data must still
// produce a point; gaps are never silently dropped.
package series

import (
	"time"

	"github.com/forgeplay/analytics/internal/event"
)

// Point is one day of a single-metric series.
type Point struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DayStart truncates a timestamp to its UTC calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns the ordered UTC midnights covering the half-open range
// [from, to). Both bounds are expected to be whole days; from is truncated
// defensively.
func Days(from, to time.Time) []time.Time {
	var days []time.Time
	for d := DayStart(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// InRange reports whether t falls within the half-open range [from, to).
// Rows outside the range are dropped entirely, never clipped into the
// nearest bucket.
func InRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// FillDaily expands a day-keyed count map into a zero-filled ordered series
// covering every calendar day in [from, to). Keys outside the range are
// ignored. For an N-day range the result always has exactly N points.
func FillDaily(from, to time.Time, counts map[string]int64) []Point {
	days := Days(from, to)
	points := make([]Point, 0, len(days))
	for _, d := range days {
		key := d.Format(event.DayFormat)
		points = append(points, Point{Date: key, Count: counts[key]})
	}
	return points
}

// SafeDiv divides num by den, defining the result as exactly 0 when the
// denominator is 0. Per-day averages use the day's own denominator, so an
// empty day yields 0 rather than NaN.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
