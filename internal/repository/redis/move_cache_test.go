package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*MoveCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewMoveCache(client, ttl), srv
}

func TestPositionEncoding(t *testing.T) {
	p := domain.Position{Row: 14, Col: 3}
	got, err := decodePosition(encodePosition(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodePositionRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "7", "a,b", "7,x", "15,0", "-1,2"} {
		_, err := decodePosition(s)
		assert.Error(t, err, s)
	}
}

func TestMoveCacheMissThenHit(t *testing.T) {
	cache, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetBestMove(ctx, "abc:white:3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetBestMove(ctx, "abc:white:3", domain.Position{Row: 7, Col: 8}))
	assert.Equal(t, "7,8", mustGet(t, srv, moveKeyPrefix+"abc:white:3"))
	assert.Equal(t, time.Minute, srv.TTL(moveKeyPrefix+"abc:white:3"))

	pos, ok, err := cache.GetBestMove(ctx, "abc:white:3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.Position{Row: 7, Col: 8}, pos)
}

func TestMoveCacheEntriesExpire(t *testing.T) {
	cache, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetBestMove(ctx, "k", domain.Position{Row: 1, Col: 2}))
	srv.FastForward(2 * time.Minute)

	_, ok, err := cache.GetBestMove(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoveCacheRejectsCorruptValue(t *testing.T) {
	cache, srv := newTestCache(t, time.Minute)
	require.NoError(t, srv.Set(moveKeyPrefix+"k", "junk"))

	_, ok, err := cache.GetBestMove(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMoveCacheServerDown(t *testing.T) {
	cache, srv := newTestCache(t, time.Minute)
	srv.Close()

	_, ok, err := cache.GetBestMove(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, cache.SetBestMove(context.Background(), "k", domain.Position{}))
}

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() { CloseRedis() })

	srv := miniredis.RunT(t)
	require.NoError(t, InitRedis(srv.Addr(), ""))
	assert.True(t, IsRedisEnabled())
	require.NoError(t, CloseRedis())

	require.NoError(t, InitRedis("127.0.0.1:1", ""))
	assert.False(t, IsRedisEnabled())
}

func mustGet(t *testing.T, srv *miniredis.Miniredis, key string) string {
	t.Helper()
	val, err := srv.Get(key)
	require.NoError(t, err)
	return val
}
