// Package engagement converts raw per-actor event counts into ranking
// scores for the creator dashboards.
package engagement

// Counts holds the raw per-actor event counts attributable to a target
// creator or post within a time window.
type Counts struct {
	Likes     int64 `json:"likes"`
	Views     int64 `json:"views"`
	Reactions int64 `json:"reactions"`
	Follows   int64 `json:"follows"`
}

// Weights are the fixed multipliers applied to each count. Follows are the
// strongest engagement signal and raw views the weakest. The values are
// part of the dashboard contract: changing them breaks score comparability
// across time windows, so they must stay fixed.
type Weights struct {
	Like     int64
	Reaction int64
	Follow   int64
	View     int64
}

// DefaultWeights returns the canonical weighting used by every dashboard.
func DefaultWeights() Weights {
	return Weights{Like: 5, Reaction: 3, Follow: 10, View: 1}
}

// Score computes the weighted scalar for one actor's counts:
// likes*5 + reactions*3 + follows*10 + views*1 under DefaultWeights.
// Increasing any single count strictly increases the score.
func (w Weights) Score(c Counts) int64 {
	return c.Likes*w.Like + c.Reactions*w.Reaction + c.Follows*w.Follow + c.Views*w.View
}
