package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

func newTestCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Minute, logging.NewNopLogger()), mr
}

func TestResponseCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	categories := []recordings.Category{
		{ID: 1, Name: "Standups", Meetings: []recordings.Meeting{{EventID: "ev-1"}}},
	}
	c.Set(ctx, "categorized", "user-1", 100, categories)

	got, ok := c.Get(ctx, "categorized", "user-1", 100)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "ev-1", got[0].Meetings[0].EventID)
}

func TestResponseCache_MissOnDifferentKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "categorized", "user-1", 100, nil)

	_, ok := c.Get(ctx, "categorized", "user-1", 50)
	assert.False(t, ok, "limit is part of the cache key")

	_, ok = c.Get(ctx, "uncategorized", "user-1", 100)
	assert.False(t, ok, "collection is part of the cache key")
}

func TestResponseCache_EntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "categorized", "user-1", 100, []recordings.Category{{ID: 1}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "categorized", "user-1", 100)
	assert.False(t, ok)
}

func TestResponseCache_MalformedEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("recall:categorized:user-1:100", "{corrupt"))

	_, ok := c.Get(ctx, "categorized", "user-1", 100)
	assert.False(t, ok)
}

func TestResponseCache_InvalidateDropsUserEntries(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "categorized", "user-1", 100, []recordings.Category{{ID: 1}})
	c.Set(ctx, "uncategorized", "user-1", 100, []recordings.Category{{ID: 2}})
	c.Set(ctx, "categorized", "user-2", 100, []recordings.Category{{ID: 3}})

	c.Invalidate(ctx, "user-1")

	_, ok := c.Get(ctx, "categorized", "user-1", 100)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "uncategorized", "user-1", 100)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "categorized", "user-2", 100)
	assert.True(t, ok, "other users' entries survive")
}
