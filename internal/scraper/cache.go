package scraper

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// CachedFetcher memoizes successful fetches by (keyword, maxLinks), so a
// keyword listed twice in one upload is only scraped once. Failures are not cached.
type CachedFetcher struct {
	next  Fetcher
	cache *gocache.Cache
}

// NewCachedFetcher wraps next with a cache holding results for ttl.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Fetch implements Fetcher. Cached results are returned as copies so callers
// may modify them freely.
func (c *CachedFetcher) Fetch(ctx context.Context, keyword string, maxLinks int) ([]*judgment.Record, error) {
	key := fmt.Sprintf("%d|%s", maxLinks, keyword)

	if v, ok := c.cache.Get(key); ok {
		return cloneRecords(v.([]*judgment.Record)), nil
	}

	records, err := c.next.Fetch(ctx, keyword, maxLinks)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, cloneRecords(records))
	return records, nil
}

func cloneRecords(in []*judgment.Record) []*judgment.Record {
	out := make([]*judgment.Record, len(in))
	for i, r := range in {
		cp := *r
		out[i] = &cp
	}
	return out
}
