package cache

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the short edge-cache lifetime for normalized responses
const DefaultTTL = 2 * time.Minute

// KeyOptions are the optional read-path filters that participate in the
// cache key
type KeyOptions struct {
	OddIDs     []string
	Bookmakers []string
	View       string
	Debug      bool
}

// BuildKey builds the canonical cache key for a league/date/view. Filter
// slices are sorted so equivalent requests always hit the same entry.
func BuildKey(league, date string, opts KeyOptions) string {
	params := url.Values{}
	if len(opts.OddIDs) > 0 {
		ids := append([]string(nil), opts.OddIDs...)
		sort.Strings(ids)
		params.Set("oddIDs", strings.Join(ids, ","))
	}
	if len(opts.Bookmakers) > 0 {
		books := append([]string(nil), opts.Bookmakers...)
		sort.Strings(books)
		params.Set("bookmakers", strings.Join(books, ","))
	}
	if opts.View != "" {
		params.Set("view", opts.View)
	}
	if opts.Debug {
		params.Set("debug", "true")
	}

	key := fmt.Sprintf("props:%s:%s", strings.ToUpper(league), date)
	if encoded := params.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

// EdgeCache serves normalized responses from Redis with a short fixed TTL.
// Entries are opaque payloads; invalidation is full key match or explicit
// purge only.
type EdgeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEdgeCache creates an edge cache (DefaultTTL when ttl <= 0)
func NewEdgeCache(client *redis.Client, ttl time.Duration) *EdgeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EdgeCache{client: client, ttl: ttl}
}

// Get returns a cached payload and whether it was present
func (c *EdgeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			fmt.Printf("cache read error for %s: %v\n", key, err)
		}
		return nil, false
	}
	return data, true
}

// Set stores a payload under the cache TTL; failures are logged, not raised
func (c *EdgeCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		fmt.Printf("cache write error for %s: %v\n", key, err)
	}
}

// Purge deletes a single canonical key and reports whether it existed
func (c *EdgeCache) Purge(ctx context.Context, key string) (bool, error) {
	deleted, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to purge cache key: %w", err)
	}
	return deleted > 0, nil
}
