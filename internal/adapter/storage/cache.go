// internal/adapter/storage/cache.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using a URL-style connection string
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return client, nil
}

// SearchCache is a short-TTL read-through cache for rendered search
// responses, keyed by the request's raw query string. A nil cache is valid
// and disables caching.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a search cache with the given TTL
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Key builds the cache key for an endpoint and its raw query string
func (c *SearchCache) Key(endpoint, rawQuery string) string {
	return "search:" + endpoint + "?" + rawQuery
}

// Get returns the cached response body for key, if present. Cache errors
// are treated as misses.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	body, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set stores a response body under key for the cache's TTL. Failures are
// ignored; the cache is an optimization, never a source of truth.
func (c *SearchCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil || c.client == nil {
		return
	}

	c.client.Set(ctx, key, body, c.ttl)
}
