package event

import (
	"context"
	"time"
)

// Source is the read-only seam between the aggregation engine and the event
// store. Every method is a single grouped-aggregation query scoped to an
// explicit subject id set and a half-open time range [from, to); callers
// never scan subjects they did not ask for.
//
// Implementations must be safe for concurrent use: the orchestrator issues
// independent queries for one request in parallel.
type Source interface {
	// CountBySubject returns subject id -> event count for events of the
	// given kind within [from, to). Subjects with no events are absent
	// from the result; zero-filling is the caller's concern.
	CountBySubject(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error)

	// CountByActor returns actor id -> event count across all the given
	// subjects for events of the given kind within [from, to).
	CountByActor(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error)

	// CountByDay returns UTC day key (see DayKey) -> event count for
	// events of the given kind within [from, to).
	CountByDay(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error)

	// ReactionTotals returns emoji -> count for reaction events on the
	// given subjects within [from, to).
	ReactionTotals(ctx context.Context, subjectIDs []string, from, to time.Time) (map[string]int64, error)

	// Followers returns actor id -> first follow time for every actor
	// that followed the given creator before the given instant. Follow
	// events are append-only, so the set only grows over time.
	Followers(ctx context.Context, creatorID string, before time.Time) (map[string]time.Time, error)

	// LikesBySubjectFromActors returns post id -> distinct liker ids,
	// restricted to likes by the given actors within [from, to), and
	// excluding the given subject ids entirely. The exclusion set keeps
	// metric families disjoint so nothing is double-counted.
	LikesBySubjectFromActors(ctx context.Context, actorIDs, excludeSubjectIDs []string, from, to time.Time) (map[string][]string, error)

	// SessionsByGame returns the playtime sessions for a game whose
	// start time falls within [from, to), ordered by start time.
	SessionsByGame(ctx context.Context, gameID string, from, to time.Time) ([]Session, error)
}
