package dashboard

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTitleCacheSize is the default capacity for NewTitleCache.
const DefaultTitleCacheSize = 1024

// TitleCache memoizes game titles looked up from the catalog. It is an
// explicit, constructible component passed into the service rather than
// package-level state, so tests run with fresh, isolated caches and
// invalidation is just dropping the instance.
type TitleCache struct {
	cache *lru.TwoQueueCache[string, string]
}

// NewTitleCache creates a title cache holding up to size entries.
func NewTitleCache(size int) (*TitleCache, error) {
	if size <= 0 {
		size = DefaultTitleCacheSize
	}
	cache, err := lru.New2Q[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create title cache: %w", err)
	}
	return &TitleCache{cache: cache}, nil
}

// Get returns the cached title for a game id.
func (c *TitleCache) Get(gameID string) (string, bool) {
	return c.cache.Get(gameID)
}

// Add stores a game title.
func (c *TitleCache) Add(gameID, title string) {
	c.cache.Add(gameID, title)
}

// Len returns the number of cached titles.
func (c *TitleCache) Len() int {
	return c.cache.Len()
}
