package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("cat")
	require.NoError(t, err)
	assert.NotEqual(t, "cat", hash)

	assert.True(t, CheckPassword(hash, "cat"))
	assert.False(t, CheckPassword(hash, "dog"))
	assert.False(t, CheckPassword("not-a-hash", "cat"))
}

func TestPasswordHashIsSalted(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "john", "s3cret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "john", claims.Username)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	var out []string
	found, err := GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", []string{"a", "b"}, time.Minute))
	found, err = GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, DeleteCache(ctx, rdb, "k"))
	found, err = GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCachePrefix(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	require.NoError(t, SetCache(ctx, rdb, "admin:users:page=1", 1, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "admin:users:page=2", 2, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "tickers:all", 3, time.Minute))

	require.NoError(t, DeleteCachePrefix(ctx, rdb, "admin:users:"))

	n, err := rdb.Exists(ctx, "admin:users:page=1", "admin:users:page=2", "tickers:all").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetCache(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Minute))
	assert.NoError(t, DeleteCachePrefix(ctx, nil, "k"))
}
