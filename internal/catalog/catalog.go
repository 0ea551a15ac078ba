// Package catalog exposes the ownership facts the aggregation engine
// consumes but never computes: which creator authored which posts, which
// developer owns which game, which users own a game, and the display
// profiles attached to ranked actors.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a creator, game, or post id has no matching
// entity.
var ErrNotFound = errors.New("catalog entity not found")

// Creator is a content creator account.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
}

// Game is a published game with its owning developer.
type Game struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

// PostMeta is the display metadata for a post surfaced in rankings.
type PostMeta struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the display profile for a ranked actor.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
}

// Catalog defines read-only access to ownership facts. Implementations
// must be safe for concurrent use.
type Catalog interface {
	// GetCreator returns a creator by id, or ErrNotFound.
	GetCreator(ctx context.Context, id string) (*Creator, error)

	// GetGame returns a game by id, or ErrNotFound.
	GetGame(ctx context.Context, id string) (*Game, error)

	// GameOwner returns the owning developer id for a game, or
	// ErrNotFound. Callers that only gate on ownership use this instead
	// of GetGame so display metadata can be cached independently.
	GameOwner(ctx context.Context, id string) (string, error)

	// PostIDsByCreator returns the ids of all posts authored by the
	// creator. An existing creator with no posts yields an empty slice.
	PostIDsByCreator(ctx context.Context, creatorID string) ([]string, error)

	// OwnersBefore returns the user ids that owned the game strictly
	// before the given instant. Used to freeze retention cohorts.
	OwnersBefore(ctx context.Context, gameID string, before time.Time) ([]string, error)

	// OwnerCount returns the total number of users who own the game.
	OwnerCount(ctx context.Context, gameID string) (int, error)

	// Profiles returns display profiles for the given actor ids. Ids
	// with no profile are absent from the result, not an error.
	Profiles(ctx context.Context, ids []string) (map[string]Profile, error)

	// PostsByIDs returns display metadata for the given post ids. Ids
	// with no post are absent from the result, not an error.
	PostsByIDs(ctx context.Context, ids []string) (map[string]PostMeta, error)
}
