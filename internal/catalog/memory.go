package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ownership records when a user acquired a game.
type ownership struct {
	UserID     string
	AcquiredAt time.Time
}

// MemoryCatalog is an in-memory Catalog used by tests. Thread-safe via
// RWMutex.
type MemoryCatalog struct {
	mu       sync.RWMutex
	creators map[string]Creator
	games    map[string]Game
	posts    map[string]PostMeta
	owners   map[string][]ownership // game id -> owners
	profiles map[string]Profile
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		creators: make(map[string]Creator),
		games:    make(map[string]Game),
		posts:    make(map[string]PostMeta),
		owners:   make(map[string][]ownership),
		profiles: make(map[string]Profile),
	}
}

// AddCreator registers a creator and a matching display profile.
func (c *MemoryCatalog) AddCreator(creator Creator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creators[creator.ID] = creator
	c.profiles[creator.ID] = Profile(creator)
}

// AddGame registers a game.
func (c *MemoryCatalog) AddGame(game Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[game.ID] = game
}

// AddPost registers a post.
func (c *MemoryCatalog) AddPost(post PostMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[post.ID] = post
}

// AddOwner records that a user acquired a game at the given time.
func (c *MemoryCatalog) AddOwner(gameID, userID string, acquiredAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[gameID] = append(c.owners[gameID], ownership{UserID: userID, AcquiredAt: acquiredAt})
}

// AddProfile registers a display profile for an actor that is not a
// creator (plain followers).
func (c *MemoryCatalog) AddProfile(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.ID] = p
}

// GetCreator returns a creator by id, or ErrNotFound.
func (c *MemoryCatalog) GetCreator(_ context.Context, id string) (*Creator, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	creator, ok := c.creators[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &creator, nil
}

// GetGame returns a game by id, or ErrNotFound.
func (c *MemoryCatalog) GetGame(_ context.Context, id string) (*Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	game, ok := c.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &game, nil
}

// GameOwner returns the owning developer id for a game, or ErrNotFound.
func (c *MemoryCatalog) GameOwner(_ context.Context, id string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	game, ok := c.games[id]
	if !ok {
		return "", ErrNotFound
	}
	return game.OwnerID, nil
}

// PostIDsByCreator returns the ids of posts authored by the creator.
func (c *MemoryCatalog) PostIDsByCreator(_ context.Context, creatorID string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []string
	for id, p := range c.posts {
		if p.AuthorID == creatorID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// OwnersBefore returns user ids that owned the game before the instant.
func (c *MemoryCatalog) OwnersBefore(_ context.Context, gameID string, before time.Time) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []string
	for _, o := range c.owners[gameID] {
		if o.AcquiredAt.Before(before) {
			ids = append(ids, o.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// OwnerCount returns the total number of owners of the game.
func (c *MemoryCatalog) OwnerCount(_ context.Context, gameID string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.owners[gameID]), nil
}

// Profiles returns display profiles for the given ids.
func (c *MemoryCatalog) Profiles(_ context.Context, ids []string) (map[string]Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]Profile)
	for _, id := range ids {
		if p, ok := c.profiles[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

// PostsByIDs returns display metadata for the given post ids.
func (c *MemoryCatalog) PostsByIDs(_ context.Context, ids []string) (map[string]PostMeta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]PostMeta)
	for _, id := range ids {
		if p, ok := c.posts[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}
