package dashboard

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/event"
	"github.com/forgeplay/analytics/internal/histogram"
	"github.com/forgeplay/analytics/internal/peak"
	"github.com/forgeplay/analytics/internal/retention"
	"github.com/forgeplay/analytics/internal/series"
	"github.com/forgeplay/analytics/internal/tracing"
)

// GameAnalytics computes the per-game overview and chart set from the
// game's playtime sessions within the requested window.
//
// The retention cohort is frozen before any day is evaluated: it is the set
// of users who owned the game before the range start. Users who acquired
// the game mid-window never enter the denominator. The retention curve is
// clipped to the requested window, so a range shorter than eight days shows
// zero activity on the days past its end.
func (s *Service) GameAnalytics(ctx context.Context, gameID, callerID string, rng Range) (result *GameAnalytics, err error) {
	const op = "game_analytics"
	start := time.Now()
	ctx, end := tracing.StartComputeSpan(ctx, op, gameID)
	defer func() {
		end(err)
		s.track(op, start, err)
	}()

	ownerID, err := s.catalog.GameOwner(ctx, gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, aggFail(op, err)
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}

	title, err := s.gameTitle(ctx, gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, aggFail(op, err)
	}

	now := s.now()
	from, to := rng.Window(now)
	chartFrom, chartTo := rng.ChartWindow(now)

	var (
		sessions   []event.Session
		cohortIDs  []string
		ownerCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sessions, err = s.events.SessionsByGame(gctx, gameID, from, to)
		return err
	})
	g.Go(func() (err error) {
		cohortIDs, err = s.catalog.OwnersBefore(gctx, gameID, from)
		return err
	})
	g.Go(func() (err error) {
		ownerCount, err = s.catalog.OwnerCount(gctx, gameID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggFail(op, err)
	}

	var totalSeconds int64
	activePlayers := make(map[string]struct{})
	playtimeByUser := make(map[string]int64)
	for _, sess := range sessions {
		totalSeconds += sess.DurationSeconds
		activePlayers[sess.UserID] = struct{}{}
		playtimeByUser[sess.UserID] += sess.DurationSeconds
	}

	cohort := make(map[string]struct{}, len(cohortIDs))
	for _, id := range cohortIDs {
		cohort[id] = struct{}{}
	}

	result = &GameAnalytics{
		GameID: gameID,
		Range:  rng.String(),
		Overview: GameOverview{
			Title:              title,
			TotalPlayers:       ownerCount,
			ActivePlayers:      len(activePlayers),
			TotalPlaytimeHours: round1(float64(totalSeconds) / 3600),
			AvgSessionMinutes:  round1(series.SafeDiv(float64(totalSeconds)/60, float64(len(sessions)))),
			TotalSessions:      len(sessions),
		},
		Charts: GameCharts{
			Daily:                dailyPlay(chartFrom, chartTo, sessions),
			Retention:            retention.Curve(cohort, retention.ActivityFromSessions(from, sessions)),
			PlaytimeDistribution: histogram.Distribute(playtimeByUser, histogram.PlaytimeBoundaries),
			PeakHours:            peak.Profile(sessions),
		},
	}

	s.logger.DebugContext(ctx, "computed game analytics",
		"game_id", gameID,
		"range", rng.String(),
		"sessions", len(sessions),
		"active_players", len(activePlayers),
	)
	return result, nil
}

// gameTitle resolves a game's display title through the title cache. A hit
// skips the catalog entirely; a miss fetches the game and fills the cache.
// Titles are display-only, so a stale entry never affects authorization.
func (s *Service) gameTitle(ctx context.Context, gameID string) (string, error) {
	if s.titles != nil {
		if title, ok := s.titles.Get(gameID); ok {
			return title, nil
		}
	}
	game, err := s.catalog.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	if s.titles != nil {
		s.titles.Add(game.ID, game.Title)
	}
	return game.Title, nil
}

// dailyPlay folds sessions into a zero-filled daily chart. Sessions outside
// the chart window are dropped, never clipped into the nearest day.
func dailyPlay(from, to time.Time, sessions []event.Session) []DailyPlay {
	type acc struct {
		sessions int
		seconds  int64
		players  map[string]struct{}
	}
	byDay := make(map[string]*acc)
	days := series.Days(from, to)
	for _, d := range days {
		byDay[d.Format(event.DayFormat)] = &acc{players: make(map[string]struct{})}
	}

	for _, sess := range sessions {
		if !series.InRange(sess.StartedAt, from, to) {
			continue
		}
		a := byDay[event.DayKey(sess.StartedAt)]
		a.sessions++
		a.seconds += sess.DurationSeconds
		a.players[sess.UserID] = struct{}{}
	}

	daily := make([]DailyPlay, 0, len(days))
	for _, d := range days {
		a := byDay[d.Format(event.DayFormat)]
		daily = append(daily, DailyPlay{
			Date:          d.Format(event.DayFormat),
			Sessions:      a.sessions,
			PlaytimeHours: round1(float64(a.seconds) / 3600),
			UniquePlayers: len(a.players),
		})
	}
	return daily
}
