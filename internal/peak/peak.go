// Package peak distributes playtime sessions across the 24 hours of the
// day to show when a game's players are most active.
//
// Hours are the event store's UTC offset only; timezone conversion is out
// of scope for the engine and belongs to presentation layers.
package peak

import (
	"fmt"

	"github.com/forgeplay/analytics/internal/event"
)

// HourCount is the session count for one hour-of-day slot.
type HourCount struct {
	Hour     string `json:"hour"`
	Sessions int    `json:"sessions"`
}

// Profile returns 24 slots ("00:00".."23:00"), each counting the sessions
// whose start hour matches. A session contributes exactly once, keyed by
// its start time only; duration and end time are ignored.
func Profile(sessions []event.Session) []HourCount {
	var grid [24]int
	for _, s := range sessions {
		grid[s.StartedAt.UTC().Hour()]++
	}

	profile := make([]HourCount, 24)
	for h := range 24 {
		profile[h] = HourCount{
			Hour:     fmt.Sprintf("%02d:00", h),
			Sessions: grid[h],
		}
	}
	return profile
}
