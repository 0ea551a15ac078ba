package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/event"
)

// testNow pins the window boundaries: the 7-day window is
// [2025-06-09, 2025-06-16).
var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, events event.Source, cat catalog.Catalog) *Service {
	t.Helper()
	titles, err := NewTitleCache(16)
	if err != nil {
		t.Fatalf("NewTitleCache() error: %v", err)
	}
	svc := NewService(events, cat, titles, slog.New(slog.NewTextHandler(io.Discard, nil)), NewMetrics())
	svc.now = func() time.Time { return testNow }
	return svc
}

func ev(kind event.Kind, actorID, subjectID string, at time.Time) event.Event {
	return event.Event{Kind: kind, ActorID: actorID, SubjectID: subjectID, OccurredAt: at}
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2025, month, day, hour, 0, 0, 0, time.UTC)
}

func newCreatorFixture(t *testing.T) (*event.MemorySource, *catalog.MemoryCatalog) {
	t.Helper()

	cat := catalog.NewMemoryCatalog()
	cat.AddCreator(catalog.Creator{ID: "creator-1", Username: "forge_ann", Level: 12})
	cat.AddPost(catalog.PostMeta{ID: "post-1", AuthorID: "creator-1", Title: "Devlog #4"})
	cat.AddPost(catalog.PostMeta{ID: "post-2", AuthorID: "creator-1", Title: "Patch notes"})

	src := event.NewMemorySource()
	src.Add(
		// Views inside the window, plus one older view that must be excluded.
		ev(event.KindView, "u1", "post-1", at(time.June, 10, 12)),
		ev(event.KindView, "u2", "post-1", at(time.June, 11, 9)),
		ev(event.KindView, "u3", "post-2", at(time.June, 12, 20)),
		ev(event.KindView, "u1", "post-1", at(time.June, 1, 8)),

		// Likes, a dislike, and link clicks.
		ev(event.KindLike, "u1", "post-1", at(time.June, 10, 13)),
		ev(event.KindLike, "u2", "post-2", at(time.June, 13, 7)),
		ev(event.KindDislike, "u3", "post-1", at(time.June, 13, 8)),
		ev(event.KindLinkClick, "u1", "post-1", at(time.June, 14, 10)),

		// Reactions grouped by emoji.
		event.Event{Kind: event.KindReaction, ActorID: "u1", SubjectID: "post-1", OccurredAt: at(time.June, 11, 11), Emoji: "fire"},
		event.Event{Kind: event.KindReaction, ActorID: "u2", SubjectID: "post-1", OccurredAt: at(time.June, 11, 12), Emoji: "fire"},
		event.Event{Kind: event.KindReaction, ActorID: "u3", SubjectID: "post-2", OccurredAt: at(time.June, 12, 12), Emoji: "heart"},

		// Follows: u1 followed long ago, u2 and u3 inside the window.
		ev(event.KindFollow, "u1", "creator-1", at(time.March, 1, 10)),
		ev(event.KindFollow, "u2", "creator-1", at(time.June, 10, 15)),
		ev(event.KindFollow, "u3", "creator-1", at(time.June, 12, 16)),

		// Previous window [2025-06-02, 2025-06-09): two views, one like.
		ev(event.KindView, "u1", "post-1", at(time.June, 3, 10)),
		ev(event.KindView, "u2", "post-2", at(time.June, 5, 10)),
		ev(event.KindLike, "u1", "post-1", at(time.June, 4, 10)),
	)
	return src, cat
}

func TestCreatorDashboard(t *testing.T) {
	src, cat := newCreatorFixture(t)
	svc := newTestService(t, src, cat)

	got, err := svc.CreatorDashboard(context.Background(), "creator-1", "creator-1", Range{Days: 7})
	if err != nil {
		t.Fatalf("CreatorDashboard() error: %v", err)
	}

	if got.CreatorID != "creator-1" || got.Range != "7" {
		t.Errorf("header = (%q, %q), want (creator-1, 7)", got.CreatorID, got.Range)
	}

	totals := got.Totals
	if totals.Views != 3 {
		t.Errorf("Totals.Views = %d, want 3 (out-of-window views excluded)", totals.Views)
	}
	if totals.Likes != 2 {
		t.Errorf("Totals.Likes = %d, want 2", totals.Likes)
	}
	if totals.Dislikes != 1 {
		t.Errorf("Totals.Dislikes = %d, want 1", totals.Dislikes)
	}
	if totals.Clicks != 1 {
		t.Errorf("Totals.Clicks = %d, want 1", totals.Clicks)
	}
	if totals.Follows != 2 {
		t.Errorf("Totals.Follows = %d, want 2 (follow events inside the window)", totals.Follows)
	}
	if totals.Followers != 3 {
		t.Errorf("Totals.Followers = %d, want 3 (all-time distinct followers)", totals.Followers)
	}
	if totals.NewFollowers != 2 {
		t.Errorf("Totals.NewFollowers = %d, want 2 (first follow inside the window)", totals.NewFollowers)
	}
	if totals.Reactions["fire"] != 2 || totals.Reactions["heart"] != 1 {
		t.Errorf("Totals.Reactions = %v, want fire:2 heart:1", totals.Reactions)
	}

	if len(got.Charts.TimeSeries) != 7 {
		t.Errorf("TimeSeries has %d points, want 7", len(got.Charts.TimeSeries))
	}
	if len(got.Charts.FollowerGrowth) != 7 {
		t.Errorf("FollowerGrowth has %d points, want 7", len(got.Charts.FollowerGrowth))
	}
	// 2025-06-10 is index 1 of the window; it saw one view and one like.
	if p := got.Charts.TimeSeries[1]; p.Date != "2025-06-10" || p.Views != 1 || p.Likes != 1 {
		t.Errorf("TimeSeries[1] = %+v, want 2025-06-10 with 1 view and 1 like", p)
	}

	if got.Comparison == nil {
		t.Fatal("Comparison is nil for a day-count range")
	}
	if got.Comparison.Views.Current != 3 || got.Comparison.Views.Previous != 2 {
		t.Errorf("Comparison.Views = %+v, want current 3 previous 2", got.Comparison.Views)
	}
	if got.Comparison.Views.ChangePct != "50.0" {
		t.Errorf("Comparison.Views.ChangePct = %q, want %q", got.Comparison.Views.ChangePct, "50.0")
	}
	if got.Comparison.Follows.Previous != 0 || got.Comparison.Follows.ChangePct != "0" {
		t.Errorf("Comparison.Follows = %+v, want previous 0 with change exactly %q", got.Comparison.Follows, "0")
	}

	if got.AvgViewTime.Seconds != nil || got.AvgViewTime.State != DataStateInsufficient {
		t.Errorf("AvgViewTime = %+v, want nil seconds with insufficient_data state", got.AvgViewTime)
	}
}

func TestCreatorDashboard_AllRange(t *testing.T) {
	src, cat := newCreatorFixture(t)
	svc := newTestService(t, src, cat)

	got, err := svc.CreatorDashboard(context.Background(), "creator-1", "creator-1", Range{All: true})
	if err != nil {
		t.Fatalf("CreatorDashboard() error: %v", err)
	}

	if got.Comparison != nil {
		t.Error("Comparison must be nil for the all range")
	}
	if got.Totals.Views != 6 {
		t.Errorf("Totals.Views = %d, want 6 (all-time totals)", got.Totals.Views)
	}
	if len(got.Charts.TimeSeries) != allTimeChartDays {
		t.Errorf("TimeSeries has %d points, want %d (charts capped for all)", len(got.Charts.TimeSeries), allTimeChartDays)
	}
}

func TestCreatorDashboard_NotFound(t *testing.T) {
	src, cat := newCreatorFixture(t)
	svc := newTestService(t, src, cat)

	_, err := svc.CreatorDashboard(context.Background(), "missing", "missing", Range{Days: 7})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreatorDashboard() error = %v, want ErrNotFound", err)
	}
}

func TestCreatorDashboard_Forbidden(t *testing.T) {
	src, cat := newCreatorFixture(t)
	svc := newTestService(t, src, cat)

	_, err := svc.CreatorDashboard(context.Background(), "creator-1", "someone-else", Range{Days: 7})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("CreatorDashboard() error = %v, want ErrForbidden", err)
	}
}

// failingSource wraps a working source and fails one query family.
type failingSource struct {
	*event.MemorySource
	failKind event.Kind
}

func (f *failingSource) CountBySubject(ctx context.Context, kind event.Kind, subjectIDs []string, from, to time.Time) (map[string]int64, error) {
	if kind == f.failKind {
		return nil, errors.New("backend unavailable")
	}
	return f.MemorySource.CountBySubject(ctx, kind, subjectIDs, from, to)
}

func TestCreatorDashboard_AggregationFailure(t *testing.T) {
	src, cat := newCreatorFixture(t)
	svc := newTestService(t, &failingSource{MemorySource: src, failKind: event.KindDislike}, cat)

	result, err := svc.CreatorDashboard(context.Background(), "creator-1", "creator-1", Range{Days: 7})
	if result != nil {
		t.Error("CreatorDashboard() returned partial results alongside an error")
	}

	var aggErr *AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("CreatorDashboard() error = %v, want *AggregationError", err)
	}
	if aggErr.Op != "creator_dashboard" {
		t.Errorf("AggregationError.Op = %q, want %q", aggErr.Op, "creator_dashboard")
	}
}

func TestCreatorDashboard_NoPosts(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.AddCreator(catalog.Creator{ID: "creator-2", Username: "quiet"})
	svc := newTestService(t, event.NewMemorySource(), cat)

	got, err := svc.CreatorDashboard(context.Background(), "creator-2", "creator-2", Range{Days: 7})
	if err != nil {
		t.Fatalf("CreatorDashboard() error: %v", err)
	}
	if got.Totals.Views != 0 || got.Totals.Followers != 0 {
		t.Errorf("Totals = %+v, want all zero", got.Totals)
	}
	if len(got.Charts.TimeSeries) != 7 {
		t.Errorf("TimeSeries has %d points, want 7 even with no data", len(got.Charts.TimeSeries))
	}
	if got.Comparison == nil {
		t.Fatal("Comparison is nil for a day-count range")
	}
	if got.Comparison.Views.ChangePct != "0" {
		t.Errorf("Comparison.Views.ChangePct = %q, want %q (zero baseline)", got.Comparison.Views.ChangePct, "0")
	}
}
