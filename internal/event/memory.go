package event

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySource is an in-memory implementation of Source backed by plain
// slices. It is used by unit tests and by the dashboard service tests in
// place of a real event store. Thread-safe via RWMutex.
type MemorySource struct {
	mu       sync.RWMutex
	events   []Event
	sessions []Session
}

// NewMemorySource creates an empty in-memory event source.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Add appends events to the store, assigning ids where missing.
func (s *MemorySource) Add(events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		s.events = append(s.events, e)
	}
}

// AddSessions appends playtime sessions to the store, assigning ids where
// missing and deriving EndedAt from the duration when unset.
func (s *MemorySource) AddSessions(sessions ...Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		if sess.ID == "" {
			sess.ID = uuid.New().String()
		}
		if sess.EndedAt.IsZero() {
			sess.EndedAt = sess.StartedAt.Add(time.Duration(sess.DurationSeconds) * time.Second)
		}
		s.sessions = append(s.sessions, sess)
	}
}

// inRange reports whether t falls within the half-open range [from, to).
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CountBySubject returns subject id -> event count for the given kind.
func (s *MemorySource) CountBySubject(_ context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := toSet(subjectIDs)
	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Kind != kind || !inRange(e.OccurredAt, from, to) {
			continue
		}
		if _, ok := subjects[e.SubjectID]; !ok {
			continue
		}
		counts[e.SubjectID]++
	}
	return counts, nil
}

// CountByActor returns actor id -> event count across the given subjects.
func (s *MemorySource) CountByActor(_ context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := toSet(subjectIDs)
	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Kind != kind || !inRange(e.OccurredAt, from, to) {
			continue
		}
		if _, ok := subjects[e.SubjectID]; !ok {
			continue
		}
		counts[e.ActorID]++
	}
	return counts, nil
}

// CountByDay returns UTC day key -> event count for the given kind.
func (s *MemorySource) CountByDay(_ context.Context, kind Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := toSet(subjectIDs)
	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Kind != kind || !inRange(e.OccurredAt, from, to) {
			continue
		}
		if _, ok := subjects[e.SubjectID]; !ok {
			continue
		}
		counts[DayKey(e.OccurredAt)]++
	}
	return counts, nil
}

// ReactionTotals returns emoji -> count for reactions on the given subjects.
func (s *MemorySource) ReactionTotals(_ context.Context, subjectIDs []string, from, to time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := toSet(subjectIDs)
	totals := make(map[string]int64)
	for _, e := range s.events {
		if e.Kind != KindReaction || !inRange(e.OccurredAt, from, to) {
			continue
		}
		if _, ok := subjects[e.SubjectID]; !ok {
			continue
		}
		totals[e.Emoji]++
	}
	return totals, nil
}

// Followers returns actor id -> first follow time for the given creator.
func (s *MemorySource) Followers(_ context.Context, creatorID string, before time.Time) (map[string]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followers := make(map[string]time.Time)
	for _, e := range s.events {
		if e.Kind != KindFollow || e.SubjectID != creatorID {
			continue
		}
		if !e.OccurredAt.Before(before) {
			continue
		}
		if first, ok := followers[e.ActorID]; !ok || e.OccurredAt.Before(first) {
			followers[e.ActorID] = e.OccurredAt
		}
	}
	return followers, nil
}

// LikesBySubjectFromActors returns post id -> distinct liker ids restricted
// to the given actors, excluding the given subjects.
func (s *MemorySource) LikesBySubjectFromActors(_ context.Context, actorIDs, excludeSubjectIDs []string, from, to time.Time) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actors := toSet(actorIDs)
	excluded := toSet(excludeSubjectIDs)
	seen := make(map[string]map[string]struct{})
	for _, e := range s.events {
		if e.Kind != KindLike || !inRange(e.OccurredAt, from, to) {
			continue
		}
		if _, ok := actors[e.ActorID]; !ok {
			continue
		}
		if _, ok := excluded[e.SubjectID]; ok {
			continue
		}
		if seen[e.SubjectID] == nil {
			seen[e.SubjectID] = make(map[string]struct{})
		}
		seen[e.SubjectID][e.ActorID] = struct{}{}
	}

	likers := make(map[string][]string, len(seen))
	for subject, actorSet := range seen {
		ids := make([]string, 0, len(actorSet))
		for id := range actorSet {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		likers[subject] = ids
	}
	return likers, nil
}

// SessionsByGame returns the game's sessions starting within [from, to),
// ordered by start time.
func (s *MemorySource) SessionsByGame(_ context.Context, gameID string, from, to time.Time) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Session
	for _, sess := range s.sessions {
		if sess.GameID != gameID || !inRange(sess.StartedAt, from, to) {
			continue
		}
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}
