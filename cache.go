package networth

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/networth/series"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultTTL is the default lifetime of cached quotes.
const DefaultTTL = 10 * time.Minute

// QuoteCache is a QuoteProvider that remembers the answers of another one for a while.
//
// Failed calls are not cached. QuoteCache is safe for concurrent use.
type QuoteCache struct {
	provider QuoteProvider
	entries  *cache.Cache
}

// NewQuoteCache returns a cache over provider. A non positive ttl means DefaultTTL.
func NewQuoteCache(provider QuoteProvider, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QuoteCache{
		provider: provider,
		entries:  cache.New(ttl, 2*ttl),
	}
}

// Invalidate forgets everything.
func (c *QuoteCache) Invalidate() { c.entries.Flush() }

func tickersKey(tickers []string) string {
	return strings.Join(slices.Sorted(slices.Values(tickers)), ",")
}

// cached returns the value under key, or calls fetch and remembers its result.
func cached[V any](c *QuoteCache, key string, fetch func() (map[string]V, error)) (map[string]V, error) {
	if v, ok := c.entries.Get(key); ok {
		return maps.Clone(v.(map[string]V)), nil
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	c.entries.Set(key, maps.Clone(v), cache.DefaultExpiration)
	return v, nil
}

// Latest implements QuoteProvider.
func (c *QuoteCache) Latest(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return cached(c, "latest|"+tickersKey(tickers), func() (map[string]decimal.Decimal, error) {
		return c.provider.Latest(ctx, tickers)
	})
}

// Series implements QuoteProvider.
//
// Series are shared between callers and must not be modified.
func (c *QuoteCache) Series(ctx context.Context, tickers []string, start time.Time, interval Interval) (map[string]*series.Series, error) {
	key := fmt.Sprintf("series|%s|%s|%s", tickersKey(tickers), start.UTC().Format(time.RFC3339), interval)
	return cached(c, key, func() (map[string]*series.Series, error) {
		return c.provider.Series(ctx, tickers, start, interval)
	})
}
