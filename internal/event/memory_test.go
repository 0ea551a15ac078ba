package event

import (
	"context"
	"testing"
	"time"
)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2025, month, day, hour, 0, 0, 0, time.UTC)
}

func seedSource() *MemorySource {
	src := NewMemorySource()
	src.Add(
		Event{Kind: KindView, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 10, 9)},
		Event{Kind: KindView, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 10, 10)},
		Event{Kind: KindView, ActorID: "u2", SubjectID: "post-2", OccurredAt: at(time.June, 11, 9)},
		Event{Kind: KindView, ActorID: "u3", SubjectID: "post-9", OccurredAt: at(time.June, 11, 9)},
		Event{Kind: KindLike, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 10, 11)},
		Event{Kind: KindView, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 20, 9)},
	)
	return src
}

var (
	from = at(time.June, 9, 0)
	to   = at(time.June, 16, 0)
)

func TestMemorySource_CountBySubject(t *testing.T) {
	src := seedSource()

	counts, err := src.CountBySubject(context.Background(), KindView, []string{"post-1", "post-2"}, from, to)
	if err != nil {
		t.Fatalf("CountBySubject() error: %v", err)
	}

	if counts["post-1"] != 2 {
		t.Errorf("post-1 views = %d, want 2 (likes and out-of-window views excluded)", counts["post-1"])
	}
	if counts["post-2"] != 1 {
		t.Errorf("post-2 views = %d, want 1", counts["post-2"])
	}
	if _, ok := counts["post-9"]; ok {
		t.Error("post-9 counted despite not being requested")
	}
}

func TestMemorySource_CountByActor(t *testing.T) {
	src := seedSource()

	counts, err := src.CountByActor(context.Background(), KindView, []string{"post-1", "post-2"}, from, to)
	if err != nil {
		t.Fatalf("CountByActor() error: %v", err)
	}

	if counts["u1"] != 2 {
		t.Errorf("u1 views = %d, want 2", counts["u1"])
	}
	if counts["u2"] != 1 {
		t.Errorf("u2 views = %d, want 1", counts["u2"])
	}
	if _, ok := counts["u3"]; ok {
		t.Error("u3 counted despite acting on an unrequested subject")
	}
}

func TestMemorySource_CountByDay(t *testing.T) {
	src := seedSource()

	counts, err := src.CountByDay(context.Background(), KindView, []string{"post-1", "post-2"}, from, to)
	if err != nil {
		t.Fatalf("CountByDay() error: %v", err)
	}

	if counts["2025-06-10"] != 2 {
		t.Errorf("2025-06-10 views = %d, want 2", counts["2025-06-10"])
	}
	if counts["2025-06-11"] != 1 {
		t.Errorf("2025-06-11 views = %d, want 1", counts["2025-06-11"])
	}
	if _, ok := counts["2025-06-20"]; ok {
		t.Error("out-of-window day present in grouped counts")
	}
}

func TestMemorySource_ReactionTotals(t *testing.T) {
	src := NewMemorySource()
	src.Add(
		Event{Kind: KindReaction, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 10, 9), Emoji: "fire"},
		Event{Kind: KindReaction, ActorID: "u2", SubjectID: "post-1", OccurredAt: at(time.June, 10, 10), Emoji: "fire"},
		Event{Kind: KindReaction, ActorID: "u3", SubjectID: "post-1", OccurredAt: at(time.June, 10, 11), Emoji: "heart"},
	)

	totals, err := src.ReactionTotals(context.Background(), []string{"post-1"}, from, to)
	if err != nil {
		t.Fatalf("ReactionTotals() error: %v", err)
	}
	if totals["fire"] != 2 || totals["heart"] != 1 {
		t.Errorf("ReactionTotals() = %v, want fire:2 heart:1", totals)
	}
}

func TestMemorySource_Followers(t *testing.T) {
	src := NewMemorySource()
	src.Add(
		Event{Kind: KindFollow, ActorID: "u1", SubjectID: "creator-1", OccurredAt: at(time.March, 5, 10)},
		// u1 followed again later; the first follow time wins.
		Event{Kind: KindFollow, ActorID: "u1", SubjectID: "creator-1", OccurredAt: at(time.June, 10, 10)},
		Event{Kind: KindFollow, ActorID: "u2", SubjectID: "creator-1", OccurredAt: at(time.June, 12, 10)},
		// After the cutoff, not a follower yet.
		Event{Kind: KindFollow, ActorID: "u3", SubjectID: "creator-1", OccurredAt: at(time.June, 20, 10)},
	)

	followers, err := src.Followers(context.Background(), "creator-1", to)
	if err != nil {
		t.Fatalf("Followers() error: %v", err)
	}

	if len(followers) != 2 {
		t.Fatalf("Followers() returned %d, want 2", len(followers))
	}
	if !followers["u1"].Equal(at(time.March, 5, 10)) {
		t.Errorf("u1 first follow = %v, want %v", followers["u1"], at(time.March, 5, 10))
	}
	if _, ok := followers["u3"]; ok {
		t.Error("u3 listed despite following after the cutoff")
	}
}

func TestMemorySource_LikesBySubjectFromActors(t *testing.T) {
	src := NewMemorySource()
	src.Add(
		Event{Kind: KindLike, ActorID: "f1", SubjectID: "other-1", OccurredAt: at(time.June, 10, 9)},
		// Duplicate like rows collapse to one distinct liker.
		Event{Kind: KindLike, ActorID: "f1", SubjectID: "other-1", OccurredAt: at(time.June, 10, 10)},
		Event{Kind: KindLike, ActorID: "f2", SubjectID: "other-1", OccurredAt: at(time.June, 11, 9)},
		Event{Kind: KindLike, ActorID: "out-1", SubjectID: "other-1", OccurredAt: at(time.June, 11, 10)},
		Event{Kind: KindLike, ActorID: "f1", SubjectID: "own-post", OccurredAt: at(time.June, 12, 9)},
	)

	likers, err := src.LikesBySubjectFromActors(context.Background(), []string{"f1", "f2"}, []string{"own-post"}, from, to)
	if err != nil {
		t.Fatalf("LikesBySubjectFromActors() error: %v", err)
	}

	if len(likers) != 1 {
		t.Fatalf("LikesBySubjectFromActors() returned %d subjects, want 1", len(likers))
	}
	got := likers["other-1"]
	if len(got) != 2 || got[0] != "f1" || got[1] != "f2" {
		t.Errorf("other-1 likers = %v, want [f1 f2]", got)
	}
}

func TestMemorySource_SessionsByGame(t *testing.T) {
	src := NewMemorySource()
	src.AddSessions(
		Session{UserID: "u2", GameID: "game-1", StartedAt: at(time.June, 11, 9), DurationSeconds: 600},
		Session{UserID: "u1", GameID: "game-1", StartedAt: at(time.June, 10, 9), DurationSeconds: 3600},
		Session{UserID: "u1", GameID: "game-2", StartedAt: at(time.June, 10, 9), DurationSeconds: 3600},
		Session{UserID: "u1", GameID: "game-1", StartedAt: at(time.June, 20, 9), DurationSeconds: 3600},
	)

	sessions, err := src.SessionsByGame(context.Background(), "game-1", from, to)
	if err != nil {
		t.Fatalf("SessionsByGame() error: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("SessionsByGame() returned %d, want 2", len(sessions))
	}
	if sessions[0].UserID != "u1" || sessions[1].UserID != "u2" {
		t.Errorf("sessions not ordered by start time: %v then %v", sessions[0].UserID, sessions[1].UserID)
	}
	if sessions[0].EndedAt.IsZero() {
		t.Error("AddSessions did not derive EndedAt from duration")
	}
}

func TestDayKey(t *testing.T) {
	plus3 := time.FixedZone("plus3", 3*3600)
	// 01:30 at UTC+3 on June 11 is June 10 in UTC.
	if got := DayKey(time.Date(2025, time.June, 11, 1, 30, 0, 0, plus3)); got != "2025-06-10" {
		t.Errorf("DayKey() = %q, want %q", got, "2025-06-10")
	}
}
