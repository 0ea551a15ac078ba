package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/forgeplay/analytics/internal/tracing"
)

// PostgresSource implements Source using PostgreSQL. Every method is one
// grouped-aggregation query; per-row follow-up queries are deliberately
// avoided so the query count per orchestrated request stays constant
// regardless of how many posts or actors are involved.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource creates a PostgresSource on top of an open connection pool.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// CountBySubject returns subject id -> event count for the given kind.
func (s *PostgresSource) CountBySubject(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (counts map[string]int64, err error) {
	if len(subjectIDs) == 0 {
		return map[string]int64{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT subject_id, COUNT(*)
		FROM events
		WHERE kind = $1
		  AND subject_id = ANY($2)
		  AND occurred_at >= $3 AND occurred_at < $4
		GROUP BY subject_id
	`

	rows, err := s.db.QueryContext(ctx, query, string(kind), pq.Array(subjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by subject: %w", err)
	}
	defer rows.Close()

	counts = make(map[string]int64)
	for rows.Next() {
		var subjectID string
		var count int64
		if err := rows.Scan(&subjectID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan subject count: %w", err)
		}
		counts[subjectID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subject counts: %w", err)
	}
	return counts, nil
}

// CountByActor returns actor id -> event count across the given subjects.
func (s *PostgresSource) CountByActor(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (counts map[string]int64, err error) {
	if len(subjectIDs) == 0 {
		return map[string]int64{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT actor_id, COUNT(*)
		FROM events
		WHERE kind = $1
		  AND subject_id = ANY($2)
		  AND occurred_at >= $3 AND occurred_at < $4
		GROUP BY actor_id
	`

	rows, err := s.db.QueryContext(ctx, query, string(kind), pq.Array(subjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by actor: %w", err)
	}
	defer rows.Close()

	counts = make(map[string]int64)
	for rows.Next() {
		var actorID string
		var count int64
		if err := rows.Scan(&actorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan actor count: %w", err)
		}
		counts[actorID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actor counts: %w", err)
	}
	return counts, nil
}

// CountByDay returns UTC day key -> event count for the given kind.
func (s *PostgresSource) CountByDay(ctx context.Context, kind Kind, subjectIDs []string, from, to time.Time) (counts map[string]int64, err error) {
	if len(subjectIDs) == 0 {
		return map[string]int64{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT date_trunc('day', occurred_at AT TIME ZONE 'UTC'), COUNT(*)
		FROM events
		WHERE kind = $1
		  AND subject_id = ANY($2)
		  AND occurred_at >= $3 AND occurred_at < $4
		GROUP BY 1
	`

	rows, err := s.db.QueryContext(ctx, query, string(kind), pq.Array(subjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by day: %w", err)
	}
	defer rows.Close()

	counts = make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		counts[day.Format(DayFormat)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day counts: %w", err)
	}
	return counts, nil
}

// ReactionTotals returns emoji -> count for reactions on the given subjects.
func (s *PostgresSource) ReactionTotals(ctx context.Context, subjectIDs []string, from, to time.Time) (totals map[string]int64, err error) {
	if len(subjectIDs) == 0 {
		return map[string]int64{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT emoji, COUNT(*)
		FROM events
		WHERE kind = 'reaction'
		  AND subject_id = ANY($1)
		  AND occurred_at >= $2 AND occurred_at < $3
		GROUP BY emoji
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(subjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to total reactions: %w", err)
	}
	defer rows.Close()

	totals = make(map[string]int64)
	for rows.Next() {
		var emoji string
		var count int64
		if err := rows.Scan(&emoji, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reaction total: %w", err)
		}
		totals[emoji] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reaction totals: %w", err)
	}
	return totals, nil
}

// Followers returns actor id -> first follow time for the given creator.
func (s *PostgresSource) Followers(ctx context.Context, creatorID string, before time.Time) (followers map[string]time.Time, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT actor_id, MIN(occurred_at)
		FROM events
		WHERE kind = 'follow'
		  AND subject_id = $1
		  AND occurred_at < $2
		GROUP BY actor_id
	`

	rows, err := s.db.QueryContext(ctx, query, creatorID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	defer rows.Close()

	followers = make(map[string]time.Time)
	for rows.Next() {
		var actorID string
		var followedAt time.Time
		if err := rows.Scan(&actorID, &followedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follower: %w", err)
		}
		followers[actorID] = followedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate followers: %w", err)
	}
	return followers, nil
}

// LikesBySubjectFromActors returns post id -> distinct liker ids restricted
// to the given actors, excluding the given subject ids.
func (s *PostgresSource) LikesBySubjectFromActors(ctx context.Context, actorIDs, excludeSubjectIDs []string, from, to time.Time) (likers map[string][]string, err error) {
	if len(actorIDs) == 0 {
		return map[string][]string{}, nil
	}

	ctx, end := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT subject_id, actor_id
		FROM events
		WHERE kind = 'like'
		  AND actor_id = ANY($1)
		  AND NOT (subject_id = ANY($2))
		  AND occurred_at >= $3 AND occurred_at < $4
		GROUP BY subject_id, actor_id
		ORDER BY subject_id, actor_id
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(actorIDs), pq.Array(excludeSubjectIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list follower likes: %w", err)
	}
	defer rows.Close()

	likers = make(map[string][]string)
	for rows.Next() {
		var subjectID, actorID string
		if err := rows.Scan(&subjectID, &actorID); err != nil {
			return nil, fmt.Errorf("failed to scan follower like: %w", err)
		}
		likers[subjectID] = append(likers[subjectID], actorID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate follower likes: %w", err)
	}
	return likers, nil
}

// SessionsByGame returns the game's sessions starting within [from, to),
// ordered by start time.
func (s *PostgresSource) SessionsByGame(ctx context.Context, gameID string, from, to time.Time) (sessions []Session, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "playtime_sessions", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `
		SELECT id, user_id, game_id, started_at, ended_at, duration_seconds
		FROM playtime_sessions
		WHERE game_id = $1
		  AND started_at >= $2 AND started_at < $3
		ORDER BY started_at
	`

	rows, err := s.db.QueryContext(ctx, query, gameID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.GameID, &sess.StartedAt, &sess.EndedAt, &sess.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}
