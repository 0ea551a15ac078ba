// Package event provides read-only access to the immutable engagement event
// streams and playtime session stream that every derived metric is computed
// from. Events are append-only; nothing in this package mutates them.
package event

import (
	"time"
)

// Kind identifies one of the six independent engagement event streams.
type Kind string

const (
	// KindView is recorded when an actor views a post.
	KindView Kind = "view"
	// KindLike is recorded when an actor likes a post.
	KindLike Kind = "like"
	// KindDislike is recorded when an actor dislikes a post.
	KindDislike Kind = "dislike"
	// KindFollow is recorded when an actor follows a creator.
	// The subject of a follow event is the creator, not a post.
	KindFollow Kind = "follow"
	// KindReaction is recorded when an actor reacts to a post with an emoji.
	KindReaction Kind = "reaction"
	// KindLinkClick is recorded when an actor clicks an outbound link on a post.
	KindLinkClick Kind = "link_click"
)

// Event is a single immutable engagement event row.
//
// At-most-one like-or-dislike per (actor, post) is enforced upstream at
// write time; this package trusts row counts as stored and never
// re-validates that invariant.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	ActorID    string    `json:"actor_id"`
	SubjectID  string    `json:"subject_id"`
	OccurredAt time.Time `json:"occurred_at"`

	// Emoji carries the reaction payload for KindReaction events and is
	// empty for every other kind.
	Emoji string `json:"emoji,omitempty"`
}

// Session is a single completed playtime session. Durations are always
// positive; a session belongs to exactly one user and one game.
type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	GameID          string    `json:"game_id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// DayFormat is the key format for per-day grouped counts. All day keys are
// UTC calendar days.
const DayFormat = "2006-01-02"

// DayKey returns the UTC calendar-day key for a timestamp.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
