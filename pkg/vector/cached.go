package vector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedSearcher memoizes query results in process. Errors are not cached.
type CachedSearcher struct {
	next  Searcher
	cache *cache.Cache
}

func NewCachedSearcher(next Searcher, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedSearcher) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	key := cacheKey(text, topK)
	if v, found := c.cache.Get(key); found {
		return copyMatches(v.([]Match)), nil
	}

	matches, err := c.next.Query(ctx, text, topK)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, copyMatches(matches))
	return matches, nil
}

// Flush drops every cached result, e.g. after re-seeding the index.
func (c *CachedSearcher) Flush() {
	c.cache.Flush()
}

func cacheKey(text string, topK int) string {
	return fmt.Sprintf("%d|%s", topK, strings.Join(strings.Fields(strings.ToLower(text)), " "))
}

func copyMatches(in []Match) []Match {
	if in == nil {
		return nil
	}
	out := make([]Match, len(in))
	copy(out, in)
	return out
}
