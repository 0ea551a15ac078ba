package dashboard

import (
	"time"

	"github.com/forgeplay/analytics/internal/compare"
	"github.com/forgeplay/analytics/internal/engagement"
	"github.com/forgeplay/analytics/internal/histogram"
	"github.com/forgeplay/analytics/internal/peak"
	"github.com/forgeplay/analytics/internal/retention"
	"github.com/forgeplay/analytics/internal/series"
)

// Data states for metrics the engine cannot yet measure. The upstream
// system fabricated "average view time" from random numbers; this engine
// reports an explicit insufficient-data state instead until real view-time
// instrumentation lands.
const (
	DataStateOK           = "ok"
	DataStateInsufficient = "insufficient_data"
)

// CreatorTotals are the whole-window totals for a creator's posts.
type CreatorTotals struct {
	Views        int64            `json:"views"`
	Likes        int64            `json:"likes"`
	Dislikes     int64            `json:"dislikes"`
	Follows      int64            `json:"follows"`
	Clicks       int64            `json:"clicks"`
	Reactions    map[string]int64 `json:"reactions"`
	Followers    int              `json:"followers"`
	NewFollowers int              `json:"new_followers"`
}

// DailyActivity is one day of the creator activity chart.
type DailyActivity struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
	Likes int64  `json:"likes"`
}

// CreatorCharts are the zero-filled daily series for the creator dashboard.
type CreatorCharts struct {
	TimeSeries     []DailyActivity `json:"time_series"`
	FollowerGrowth []series.Point  `json:"follower_growth"`
}

// PeriodComparisons are the period-over-period deltas for the headline
// creator metrics.
type PeriodComparisons struct {
	Views   compare.Comparison `json:"views"`
	Likes   compare.Comparison `json:"likes"`
	Follows compare.Comparison `json:"follows"`
}

// ViewTimeInsight is the average-view-time badge. Seconds is nil and State
// is DataStateInsufficient until the engine has real measurements; synthetic
// values are never emitted.
type ViewTimeInsight struct {
	Seconds *float64 `json:"seconds"`
	State   string   `json:"state"`
}

// CreatorDashboard is the full creator dashboard response.
type CreatorDashboard struct {
	CreatorID string        `json:"creator_id"`
	Range     string        `json:"range"`
	Totals    CreatorTotals `json:"totals"`
	Charts    CreatorCharts `json:"charts"`

	// Comparison is nil only when the range is "all": there is no
	// well-defined previous window to compare against.
	Comparison *PeriodComparisons `json:"comparison"`

	AvgViewTime ViewTimeInsight `json:"avg_view_time"`
}

// GameOverview are the whole-window headline numbers for a game.
type GameOverview struct {
	Title              string  `json:"title"`
	TotalPlayers       int     `json:"total_players"`
	ActivePlayers      int     `json:"active_players"`
	TotalPlaytimeHours float64 `json:"total_playtime_hours"`
	AvgSessionMinutes  float64 `json:"avg_session_minutes"`
	TotalSessions      int     `json:"total_sessions"`
}

// DailyPlay is one day of the game activity chart.
type DailyPlay struct {
	Date          string  `json:"date"`
	Sessions      int     `json:"sessions"`
	PlaytimeHours float64 `json:"playtime_hours"`
	UniquePlayers int     `json:"unique_players"`
}

// GameCharts are the derived chart series for a game.
type GameCharts struct {
	Daily                []DailyPlay        `json:"daily"`
	Retention            []retention.Point  `json:"retention"`
	PlaytimeDistribution []histogram.Bucket `json:"playtime_distribution"`
	PeakHours            []peak.HourCount   `json:"peak_hours"`
}

// GameAnalytics is the full per-game analytics response.
type GameAnalytics struct {
	GameID   string       `json:"game_id"`
	Range    string       `json:"range"`
	Overview GameOverview `json:"overview"`
	Charts   GameCharts   `json:"charts"`
}

// RankedFollower is one entry of the top-engaged-followers ranking.
type RankedFollower struct {
	ID              string            `json:"id"`
	Username        string            `json:"username"`
	Avatar          string            `json:"avatar"`
	Level           int               `json:"level"`
	FollowedAt      time.Time         `json:"followed_at"`
	EngagementScore int64             `json:"engagement_score"`
	EngagementStats engagement.Counts `json:"engagement_stats"`
}

// PopularPostMetrics are the per-post numbers for the popular-content
// ranking. FollowerLikes is the ranking key; the totals are context.
type PopularPostMetrics struct {
	TotalLikes             int64  `json:"total_likes"`
	TotalViews             int64  `json:"total_views"`
	TotalReactions         int64  `json:"total_reactions"`
	FollowerLikes          int    `json:"follower_likes"`
	FollowerLikePercentage string `json:"follower_like_percentage"`
}

// PopularPost is one post of the popular-content ranking, authored by a
// creator other than the requesting one.
type PopularPost struct {
	PostID    string             `json:"post_id"`
	AuthorID  string             `json:"author_id"`
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
	Metrics   PopularPostMetrics `json:"metrics"`
}

// PopularContent is the popular-content response. Message explains an
// empty list (a creator with no followers gets an explanation, not an
// error).
type PopularContent struct {
	Posts   []PopularPost `json:"posts"`
	Message string        `json:"message,omitempty"`
}
