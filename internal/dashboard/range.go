package dashboard

import (
	"strconv"
	"time"

	"github.com/forgeplay/analytics/internal/series"
)

const (
	// MaxRangeDays caps integer day ranges; anything larger should use
	// the "all" range instead.
	MaxRangeDays = 365

	// allTimeChartDays bounds chart series for the "all" range. Totals
	// still cover all time, but a daily chart spanning years is useless
	// to render, so charts show the most recent window only.
	allTimeChartDays = 90
)

// allTimeStart is the scan floor for the "all" range. The event store holds
// nothing before the platform launched.
var allTimeStart = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// Range is a resolved time-range parameter: either a whole-day count or
// all time.
type Range struct {
	Days int
	All  bool
}

// ParseRange parses the external range parameter. Valid inputs are a
// positive integer day count up to MaxRangeDays, or the literal "all".
// Anything else is rejected with ErrInvalidRange rather than silently
// defaulted to a guessed range.
func ParseRange(s string) (Range, error) {
	if s == "all" {
		return Range{All: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > MaxRangeDays {
		return Range{}, ErrInvalidRange
	}
	return Range{Days: n}, nil
}

// String renders the range back in its external form.
func (r Range) String() string {
	if r.All {
		return "all"
	}
	return strconv.Itoa(r.Days)
}

// Window returns the half-open current window [from, to) in whole UTC
// days. The window ends at the next UTC midnight so today's partial data
// is included.
func (r Range) Window(now time.Time) (from, to time.Time) {
	to = series.DayStart(now).AddDate(0, 0, 1)
	if r.All {
		return allTimeStart, to
	}
	return to.AddDate(0, 0, -r.Days), to
}

// PreviousWindow returns the equal-length window immediately before the
// current one. There is no well-defined previous window for the "all"
// range; callers must check All before using this.
func (r Range) PreviousWindow(now time.Time) (from, to time.Time) {
	from, to = r.Window(now)
	return from.AddDate(0, 0, -r.Days), from
}

// ChartWindow returns the window daily chart series cover: the full window
// for day-count ranges, the most recent allTimeChartDays for "all".
func (r Range) ChartWindow(now time.Time) (from, to time.Time) {
	from, to = r.Window(now)
	if r.All {
		from = to.AddDate(0, 0, -allTimeChartDays)
	}
	return from, to
}
