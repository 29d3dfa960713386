package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianDanlos/rythm/internal"
)

type payload struct {
	Streak int     `json:"streak"`
	Score  float64 `json:"score"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c, err := New(context.Background(), srv.Addr(), "", 0, time.Minute, internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c.(*RedisCache), srv
}

func set(t *testing.T, c Cache, userID string, v payload) {
	t.Helper()
	slot, _, err := c.Get(context.Background(), userID, "stats", &payload{})
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), slot, v))
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got payload
	slot, hit, err := c.Get(ctx, "u1", "stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotEmpty(t, slot)

	require.NoError(t, c.Set(ctx, slot, payload{Streak: 4, Score: 87.5}))
	_, hit, err = c.Get(ctx, "u1", "stats", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Streak: 4, Score: 87.5}, got)

	_, hit, err = c.Get(ctx, "u2", "stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_InvalidateIsPerUser(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	set(t, c, "u1", payload{Streak: 1})
	set(t, c, "u2", payload{Streak: 2})
	require.NoError(t, c.Invalidate(ctx, "u1"))

	var got payload
	_, hit, err := c.Get(ctx, "u1", "stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = c.Get(ctx, "u2", "stats", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got.Streak)
}

func TestRedisCache_SlotReadBeforeInvalidateStaysOrphaned(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	stale, hit, err := c.Get(ctx, "u1", "stats", &payload{})
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	require.NoError(t, c.Set(ctx, stale, payload{Streak: 9}))

	var got payload
	_, hit, err = c.Get(ctx, "u1", "stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Expires(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	set(t, c, "u1", payload{Streak: 1})
	srv.FastForward(2 * time.Minute)

	var got payload
	_, hit, err := c.Get(ctx, "u1", "stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNew_DisabledWithoutAddr(t *testing.T) {
	c, err := New(context.Background(), "", "", 0, time.Minute, internal.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, NopCache{}, c)

	slot, hit, err := c.Get(context.Background(), "u1", "stats", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, slot)
}

func TestNew_UnreachableRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := New(context.Background(), addr, "", 0, time.Minute, internal.NewNopLogger())
	assert.Error(t, err)
}
