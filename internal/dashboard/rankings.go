package dashboard

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/compare"
	"github.com/forgeplay/analytics/internal/engagement"
	"github.com/forgeplay/analytics/internal/event"
	"github.com/forgeplay/analytics/internal/tracing"
)

const (
	// DefaultLimit is used when a ranking request does not specify one.
	DefaultLimit = 10
	// MaxLimit caps ranking lengths.
	MaxLimit = 50
)

// clampLimit normalizes a requested ranking length.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// TopFollowers ranks a creator's followers by weighted engagement score,
// computed only from events each follower generated on that creator's own
// posts within the window. Followers with a score of exactly 0 are never
// returned.
func (s *Service) TopFollowers(ctx context.Context, creatorID string, limit int, rng Range) (ranked []RankedFollower, err error) {
	const op = "top_followers"
	start := time.Now()
	ctx, end := tracing.StartComputeSpan(ctx, op, creatorID)
	defer func() {
		end(err)
		s.track(op, start, err)
	}()

	if _, err := s.catalog.GetCreator(ctx, creatorID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, aggFail(op, err)
	}
	limit = clampLimit(limit)

	now := s.now()
	from, to := rng.Window(now)

	postIDs, err := s.catalog.PostIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, aggFail(op, err)
	}

	var (
		followerTimes                 map[string]time.Time
		likesByActor, viewsByActor    map[string]int64
		reactsByActor, followsByActor map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		followerTimes, err = s.events.Followers(gctx, creatorID, to)
		return err
	})
	g.Go(func() (err error) {
		likesByActor, err = s.events.CountByActor(gctx, event.KindLike, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		viewsByActor, err = s.events.CountByActor(gctx, event.KindView, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		reactsByActor, err = s.events.CountByActor(gctx, event.KindReaction, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		followsByActor, err = s.events.CountByActor(gctx, event.KindFollow, []string{creatorID}, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggFail(op, err)
	}

	// Only followers are scored; engagement by outsiders on the same
	// posts is ignored for this ranking.
	byActor := make(map[string]engagement.Counts, len(followerTimes))
	for id := range followerTimes {
		byActor[id] = engagement.Counts{
			Likes:     likesByActor[id],
			Views:     viewsByActor[id],
			Reactions: reactsByActor[id],
			Follows:   followsByActor[id],
		}
	}
	scored := engagement.TopEngaged(byActor, s.weights, limit)

	ids := make([]string, 0, len(scored))
	for _, sc := range scored {
		ids = append(ids, sc.ActorID)
	}
	profiles, err := s.catalog.Profiles(ctx, ids)
	if err != nil {
		return nil, aggFail(op, err)
	}

	ranked = make([]RankedFollower, 0, len(scored))
	for _, sc := range scored {
		f := RankedFollower{
			ID:              sc.ActorID,
			FollowedAt:      followerTimes[sc.ActorID],
			EngagementScore: sc.Score,
			EngagementStats: sc.Counts,
		}
		if p, ok := profiles[sc.ActorID]; ok {
			f.Username = p.Username
			f.Avatar = p.Avatar
			f.Level = p.Level
		}
		ranked = append(ranked, f)
	}
	return ranked, nil
}

// PopularContent surfaces other creators' posts ranked by how many of this
// creator's followers liked them. The ranking key is follower headcount,
// not the weighted engagement score. The creator's own posts are excluded
// up front so the two metric families stay disjoint.
//
// A creator with no followers gets an empty list with an explanatory
// message rather than an error.
func (s *Service) PopularContent(ctx context.Context, creatorID string, limit int, rng Range) (result *PopularContent, err error) {
	const op = "popular_content"
	start := time.Now()
	ctx, end := tracing.StartComputeSpan(ctx, op, creatorID)
	defer func() {
		end(err)
		s.track(op, start, err)
	}()

	if _, err := s.catalog.GetCreator(ctx, creatorID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, aggFail(op, err)
	}
	limit = clampLimit(limit)

	now := s.now()
	from, to := rng.Window(now)

	followerTimes, err := s.events.Followers(ctx, creatorID, to)
	if err != nil {
		return nil, aggFail(op, err)
	}
	if len(followerTimes) == 0 {
		return &PopularContent{
			Posts:   []PopularPost{},
			Message: "this creator has no followers yet, so there is no liked content to surface",
		}, nil
	}

	ownPostIDs, err := s.catalog.PostIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, aggFail(op, err)
	}

	followerIDs := make([]string, 0, len(followerTimes))
	followerSet := make(map[string]struct{}, len(followerTimes))
	for id := range followerTimes {
		followerIDs = append(followerIDs, id)
		followerSet[id] = struct{}{}
	}

	likersByPost, err := s.events.LikesBySubjectFromActors(ctx, followerIDs, ownPostIDs, from, to)
	if err != nil {
		return nil, aggFail(op, err)
	}
	top := engagement.PopularAmongFollowers(likersByPost, followerSet, limit)
	if len(top) == 0 {
		return &PopularContent{
			Posts:   []PopularPost{},
			Message: "no posts were liked by this creator's followers in the selected range",
		}, nil
	}

	postIDs := make([]string, 0, len(top))
	for _, p := range top {
		postIDs = append(postIDs, p.PostID)
	}

	var (
		totalLikes, totalViews map[string]int64
		totalReactions         map[string]int64
		metas                  map[string]catalog.PostMeta
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalLikes, err = s.events.CountBySubject(gctx, event.KindLike, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		totalViews, err = s.events.CountBySubject(gctx, event.KindView, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		totalReactions, err = s.events.CountBySubject(gctx, event.KindReaction, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		metas, err = s.catalog.PostsByIDs(gctx, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggFail(op, err)
	}

	posts := make([]PopularPost, 0, len(top))
	for _, p := range top {
		pct := 100 * float64(p.FollowerLikes) / float64(len(followerSet))
		entry := PopularPost{
			PostID: p.PostID,
			Metrics: PopularPostMetrics{
				TotalLikes:             totalLikes[p.PostID],
				TotalViews:             totalViews[p.PostID],
				TotalReactions:         totalReactions[p.PostID],
				FollowerLikes:          p.FollowerLikes,
				FollowerLikePercentage: compare.FormatPct(pct),
			},
		}
		if meta, ok := metas[p.PostID]; ok {
			entry.AuthorID = meta.AuthorID
			entry.Title = meta.Title
			entry.Thumbnail = meta.Thumbnail
		}
		posts = append(posts, entry)
	}
	return &PopularContent{Posts: posts}, nil
}
