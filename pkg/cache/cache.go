// Package cache provides an optional short-TTL Redis cache for remote list
// responses, so repeated list invocations within the TTL do not re-hit the
// recording service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

// DefaultTTL bounds how stale a cached list response may be.
const DefaultTTL = 30 * time.Second

// ResponseCache stores category list responses in Redis keyed by collection,
// user and limit.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// New creates a ResponseCache over the given Redis client. A zero ttl falls
// back to DefaultTTL.
func New(client *redis.Client, ttl time.Duration, logger logging.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(logging.F("component", "response_cache")),
	}
}

func key(collection, userID string, limit int) string {
	return fmt.Sprintf("recall:%s:%s:%d", collection, userID, limit)
}

// Get returns the cached categories for the given collection, or ok=false
// on a miss. Redis errors degrade to a miss; the caller falls through to
// the network.
func (c *ResponseCache) Get(ctx context.Context, collection, userID string, limit int) ([]recordings.Category, bool) {
	data, err := c.client.Get(ctx, key(collection, userID, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", logging.Err(err))
		return nil, false
	}

	var categories []recordings.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		c.logger.Warn("cache entry malformed, discarding",
			logging.F("collection", collection),
			logging.Err(err))
		return nil, false
	}
	return categories, true
}

// Set stores a list response. Failures are logged and otherwise ignored;
// caching is best-effort.
func (c *ResponseCache) Set(ctx context.Context, collection, userID string, limit int, categories []recordings.Category) {
	data, err := json.Marshal(categories)
	if err != nil {
		c.logger.Warn("marshaling cache entry failed", logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, key(collection, userID, limit), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", logging.Err(err))
	}
}

// Invalidate drops all cached list responses for the given user, typically
// after a sync completes so the next list reflects fresh data.
func (c *ResponseCache) Invalidate(ctx context.Context, userID string) {
	pattern := fmt.Sprintf("recall:*:%s:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("cache invalidation failed", logging.Err(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", logging.Err(err))
	}
}
