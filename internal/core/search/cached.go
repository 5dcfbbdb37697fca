package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/powerbar/internal/core/suggest"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a cached search result is served.
const DefaultCacheTTL = 2 * time.Minute

// Cached serves repeated (query, limit) searches from memory. Errors are never
// cached.
type Cached struct {
	next  Searcher
	cache *gocache.Cache
}

// NewCached wraps next with an in-memory cache whose entries expire after ttl.
func NewCached(next Searcher, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Search implements Searcher.
func (c *Cached) Search(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error) {
	key := cacheKey(query, limit)
	if v, ok := c.cache.Get(key); ok {
		if raw, ok := v.(map[suggest.Category][]suggest.Item); ok {
			return raw, nil
		}
	}

	raw, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, raw)
	return raw, nil
}

// Flush drops every cached result.
func (c *Cached) Flush() {
	c.cache.Flush()
}

func cacheKey(query string, limit int) string {
	return strconv.Itoa(limit) + ":" + strings.ToLower(query)
}
