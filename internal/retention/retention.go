// Package retention computes cohort retention curves from playtime
// sessions.
//
// The cohort is a fixed set of user ids frozen before the computation
// starts (users who owned the game before the range start). The denominator
// never grows as later days are evaluated; users who acquired the game
// mid-window do not count toward any day.
package retention

import (
	"time"

	"github.com/forgeplay/analytics/internal/compare"
	"github.com/forgeplay/analytics/internal/event"
	"github.com/forgeplay/analytics/internal/series"
)

// DaysTracked is the last tracked day offset; the curve covers days
// 0 through DaysTracked inclusive.
const DaysTracked = 7

// Point is the retention percentage for a single day offset.
type Point struct {
	Day          int    `json:"day"`
	RetentionPct string `json:"retention_pct"`
}

// ActivityFromSessions partitions session activity into per-day active-user
// sets for days 0..DaysTracked relative to start. Sessions starting outside
// the tracked window are ignored.
func ActivityFromSessions(start time.Time, sessions []event.Session) []map[string]struct{} {
	activity := make([]map[string]struct{}, DaysTracked+1)
	for i := range activity {
		activity[i] = make(map[string]struct{})
	}

	start = series.DayStart(start)
	end := start.AddDate(0, 0, DaysTracked+1)
	for _, s := range sessions {
		if !series.InRange(s.StartedAt, start, end) {
			continue
		}
		day := int(series.DayStart(s.StartedAt).Sub(start).Hours() / 24)
		activity[day][s.UserID] = struct{}{}
	}
	return activity
}

// Curve computes the retention curve for a frozen cohort. For day d,
// retention% = 100 * |active(d) ∩ cohort| / |cohort|, rounded to one
// decimal. An empty cohort yields "0.0" for every day rather than an error
// or NaN. Day 0 gets no special treatment: it reflects whatever fraction of
// the cohort was actually active that day.
func Curve(cohort map[string]struct{}, activity []map[string]struct{}) []Point {
	points := make([]Point, 0, DaysTracked+1)
	for day := 0; day <= DaysTracked; day++ {
		var active map[string]struct{}
		if day < len(activity) {
			active = activity[day]
		}

		pct := 0.0
		if len(cohort) > 0 {
			retained := 0
			for id := range active {
				if _, ok := cohort[id]; ok {
					retained++
				}
			}
			pct = 100 * float64(retained) / float64(len(cohort))
		}
		points = append(points, Point{Day: day, RetentionPct: compare.FormatPct(pct)})
	}
	return points
}
