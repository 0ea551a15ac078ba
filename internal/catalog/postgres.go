package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/forgeplay/analytics/internal/tracing"
)

// PostgresCatalog implements Catalog using PostgreSQL.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog creates a PostgresCatalog on top of an open connection
// pool.
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// GetCreator returns a creator by id, or ErrNotFound.
func (c *PostgresCatalog) GetCreator(ctx context.Context, id string) (creator *Creator, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "creators", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id, username, avatar_url, level
		FROM creators
		WHERE id = $1
	`

	creator = &Creator{}
	err = c.db.QueryRowContext(ctx, query, id).Scan(&creator.ID, &creator.Username, &creator.Avatar, &creator.Level)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return creator, nil
}

// GetGame returns a game by id, or ErrNotFound.
func (c *PostgresCatalog) GetGame(ctx context.Context, id string) (game *Game, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "games", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id, title, owner_id
		FROM games
		WHERE id = $1
	`

	game = &Game{}
	err = c.db.QueryRowContext(ctx, query, id).Scan(&game.ID, &game.Title, &game.OwnerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GameOwner returns the owning developer id for a game, or ErrNotFound.
func (c *PostgresCatalog) GameOwner(ctx context.Context, id string) (ownerID string, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "games", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT owner_id
		FROM games
		WHERE id = $1
	`

	err = c.db.QueryRowContext(ctx, query, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get game owner: %w", err)
	}
	return ownerID, nil
}

// PostIDsByCreator returns the ids of posts authored by the creator.
func (c *PostgresCatalog) PostIDsByCreator(ctx context.Context, creatorID string) (ids []string, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id
		FROM posts
		WHERE author_id = $1
		ORDER BY id
	`

	rows, err := c.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post ids: %w", err)
	}
	return ids, nil
}

// OwnersBefore returns user ids that owned the game strictly before the
// given instant.
func (c *PostgresCatalog) OwnersBefore(ctx context.Context, gameID string, before time.Time) (ids []string, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "game_ownership", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT user_id
		FROM game_ownership
		WHERE game_id = $1
		  AND acquired_at < $2
		ORDER BY user_id
	`

	rows, err := c.db.QueryContext(ctx, query, gameID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list game owners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owner id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owner ids: %w", err)
	}
	return ids, nil
}

// OwnerCount returns the total number of owners of the game.
func (c *PostgresCatalog) OwnerCount(ctx context.Context, gameID string) (count int, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "game_ownership", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT COUNT(*)
		FROM game_ownership
		WHERE game_id = $1
	`

	if err = c.db.QueryRowContext(ctx, query, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count game owners: %w", err)
	}
	return count, nil
}

// Profiles returns display profiles for the given actor ids.
func (c *PostgresCatalog) Profiles(ctx context.Context, ids []string) (profiles map[string]Profile, err error) {
	if len(ids) == 0 {
		return map[string]Profile{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "profiles", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id, username, avatar_url, level
		FROM profiles
		WHERE id = ANY($1)
	`

	rows, err := c.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles = make(map[string]Profile)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Avatar, &p.Level); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// PostsByIDs returns display metadata for the given post ids.
func (c *PostgresCatalog) PostsByIDs(ctx context.Context, ids []string) (posts map[string]PostMeta, err error) {
	if len(ids) == 0 {
		return map[string]PostMeta{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id, author_id, title, thumbnail_url, created_at
		FROM posts
		WHERE id = ANY($1)
	`

	rows, err := c.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts = make(map[string]PostMeta)
	for rows.Next() {
		var p PostMeta
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Thumbnail, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
