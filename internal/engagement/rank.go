package engagement

import (
	"sort"
)

// Scored is one actor's weighted engagement toward a target.
type Scored struct {
	ActorID string `json:"actor_id"`
	Score   int64  `json:"score"`
	Counts  Counts `json:"counts"`
}

// TopEngaged ranks actors by weighted score, descending, with actor id as
// the tiebreak for deterministic output. Actors with a score of exactly 0
// are excluded: a zero-score follower is not "engaged". The result is
// truncated to limit entries (limit <= 0 means no truncation).
func TopEngaged(byActor map[string]Counts, w Weights, limit int) []Scored {
	ranked := make([]Scored, 0, len(byActor))
	for id, counts := range byActor {
		score := w.Score(counts)
		if score == 0 {
			continue
		}
		ranked = append(ranked, Scored{ActorID: id, Score: score, Counts: counts})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ActorID < ranked[j].ActorID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// PopularPost is one post ranked by how many of a creator's followers
// liked it.
type PopularPost struct {
	PostID        string `json:"post_id"`
	FollowerLikes int    `json:"follower_likes"`
}

// PopularAmongFollowers ranks posts by the count of the creator's own
// followers who liked each post. This is deliberately NOT the weighted
// engagement score: the ranking key is follower headcount. Likers outside
// the follower set are excluded entirely, even when they liked the same
// posts. Posts with no follower likes are omitted. Ties break on post id.
func PopularAmongFollowers(likersByPost map[string][]string, followers map[string]struct{}, limit int) []PopularPost {
	ranked := make([]PopularPost, 0, len(likersByPost))
	for postID, likers := range likersByPost {
		count := 0
		for _, id := range likers {
			if _, ok := followers[id]; ok {
				count++
			}
		}
		if count == 0 {
			continue
		}
		ranked = append(ranked, PopularPost{PostID: postID, FollowerLikes: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FollowerLikes != ranked[j].FollowerLikes {
			return ranked[i].FollowerLikes > ranked[j].FollowerLikes
		}
		return ranked[i].PostID < ranked[j].PostID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
