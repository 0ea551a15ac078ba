package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/compare"
	"github.com/forgeplay/analytics/internal/engagement"
	"github.com/forgeplay/analytics/internal/event"
	"github.com/forgeplay/analytics/internal/series"
	"github.com/forgeplay/analytics/internal/tracing"
)

// Service orchestrates the analytics computations. It holds no mutable
// state shared between requests; every computation reads fresh rows from
// the event source. Within one request, independent sub-queries run
// concurrently and are joined before any derivation starts. A failed
// sub-query fails the whole request.
type Service struct {
	events  event.Source
	catalog catalog.Catalog
	titles  *TitleCache
	weights engagement.Weights
	logger  *slog.Logger
	metrics *Metrics

	// now is swapped out by tests to pin the window boundaries.
	now func() time.Time
}

// NewService creates the orchestrator. logger and metrics may be nil; a nil
// titles cache disables memoization.
func NewService(events event.Source, cat catalog.Catalog, titles *TitleCache, logger *slog.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		events:  events,
		catalog: cat,
		titles:  titles,
		weights: engagement.DefaultWeights(),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// track records duration and failure metrics for one computation.
func (s *Service) track(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveCompute(op, time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncFailure(op)
	}
}

// CreatorDashboard computes the dashboard totals, charts, and
// period-over-period comparison for a creator's own posts.
//
// Ownership is checked before any aggregation work: callers other than the
// creator get ErrForbidden immediately. Comparison is nil only for the
// "all" range.
func (s *Service) CreatorDashboard(ctx context.Context, creatorID, callerID string, rng Range) (result *CreatorDashboard, err error) {
	const op = "creator_dashboard"
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
	if callerID != creatorID {
		return nil, ErrForbidden
	}

	now := s.now()
	from, to := rng.Window(now)
	chartFrom, chartTo := rng.ChartWindow(now)

	postIDs, err := s.catalog.PostIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, aggFail(op, err)
	}

	creatorSubject := []string{creatorID}

	// Fan out one grouped query per metric family. The event store needs
	// one query per family per subject set, so these have no ordering
	// dependency on each other.
	var (
		views, likes, dislikes, clicks map[string]int64
		reactions                      map[string]int64
		followerTimes                  map[string]time.Time
		followsInRange                 map[string]int64
		viewsByDay, likesByDay         map[string]int64
		followsByDay                   map[string]int64
		prevViews, prevLikes           map[string]int64
		prevFollows                    map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		views, err = s.events.CountBySubject(gctx, event.KindView, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		likes, err = s.events.CountBySubject(gctx, event.KindLike, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		dislikes, err = s.events.CountBySubject(gctx, event.KindDislike, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		clicks, err = s.events.CountBySubject(gctx, event.KindLinkClick, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		reactions, err = s.events.ReactionTotals(gctx, postIDs, from, to)
		return err
	})
	g.Go(func() (err error) {
		followerTimes, err = s.events.Followers(gctx, creatorID, to)
		return err
	})
	g.Go(func() (err error) {
		followsInRange, err = s.events.CountBySubject(gctx, event.KindFollow, creatorSubject, from, to)
		return err
	})
	g.Go(func() (err error) {
		viewsByDay, err = s.events.CountByDay(gctx, event.KindView, postIDs, chartFrom, chartTo)
		return err
	})
	g.Go(func() (err error) {
		likesByDay, err = s.events.CountByDay(gctx, event.KindLike, postIDs, chartFrom, chartTo)
		return err
	})
	g.Go(func() (err error) {
		followsByDay, err = s.events.CountByDay(gctx, event.KindFollow, creatorSubject, chartFrom, chartTo)
		return err
	})
	if !rng.All {
		prevFrom, prevTo := rng.PreviousWindow(now)
		g.Go(func() (err error) {
			prevViews, err = s.events.CountBySubject(gctx, event.KindView, postIDs, prevFrom, prevTo)
			return err
		})
		g.Go(func() (err error) {
			prevLikes, err = s.events.CountBySubject(gctx, event.KindLike, postIDs, prevFrom, prevTo)
			return err
		})
		g.Go(func() (err error) {
			prevFollows, err = s.events.CountBySubject(gctx, event.KindFollow, creatorSubject, prevFrom, prevTo)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, aggFail(op, err)
	}

	newFollowers := 0
	for _, t := range followerTimes {
		if series.InRange(t, from, to) {
			newFollowers++
		}
	}

	days := series.Days(chartFrom, chartTo)
	timeSeries := make([]DailyActivity, 0, len(days))
	for _, d := range days {
		key := d.Format(event.DayFormat)
		timeSeries = append(timeSeries, DailyActivity{
			Date:  key,
			Views: viewsByDay[key],
			Likes: likesByDay[key],
		})
	}

	result = &CreatorDashboard{
		CreatorID: creatorID,
		Range:     rng.String(),
		Totals: CreatorTotals{
			Views:        sumCounts(views),
			Likes:        sumCounts(likes),
			Dislikes:     sumCounts(dislikes),
			Follows:      sumCounts(followsInRange),
			Clicks:       sumCounts(clicks),
			Reactions:    reactions,
			Followers:    len(followerTimes),
			NewFollowers: newFollowers,
		},
		Charts: CreatorCharts{
			TimeSeries:     timeSeries,
			FollowerGrowth: series.FillDaily(chartFrom, chartTo, followsByDay),
		},
		AvgViewTime: ViewTimeInsight{State: DataStateInsufficient},
	}
	if !rng.All {
		result.Comparison = &PeriodComparisons{
			Views:   compare.Change(result.Totals.Views, sumCounts(prevViews)),
			Likes:   compare.Change(result.Totals.Likes, sumCounts(prevLikes)),
			Follows: compare.Change(result.Totals.Follows, sumCounts(prevFollows)),
		}
	}

	s.logger.DebugContext(ctx, "computed creator dashboard",
		"creator_id", creatorID,
		"range", rng.String(),
		"posts", len(postIDs),
		"followers", result.Totals.Followers,
	)
	return result, nil
}

// sumCounts totals a grouped count map.
func sumCounts(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

// round1 rounds to one decimal place for display-stable numbers.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
