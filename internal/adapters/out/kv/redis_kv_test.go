package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "fisha/internal/domain/cart"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisKV_GetSetRemove(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisKV(client, time.Hour)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "kenzo_cart:s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "kenzo_cart:s1", `[]`))
	v, ok, err := store.Get(ctx, "kenzo_cart:s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
	assert.Equal(t, time.Hour, mr.TTL("kenzo_cart:s1"))

	require.NoError(t, store.Remove(ctx, "kenzo_cart:s1"))
	require.NoError(t, store.Remove(ctx, "kenzo_cart:s1"), "second remove is a no-op")
	assert.False(t, mr.Exists("kenzo_cart:s1"))
}

func TestRedisKV_DefaultTTLAndExpiry(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisKV(client, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	assert.Equal(t, cartdom.DefaultCartTTL, mr.TTL("k"))

	mr.FastForward(cartdom.DefaultCartTTL + time.Second)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKV_ServerDown(t *testing.T) {
	client, mr := setupRedis(t)
	store := NewRedisKV(client, time.Hour)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}

func TestRedisKV_NilClient(t *testing.T) {
	var store *RedisKV
	_, _, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errNilClient)
}

func TestMemoryKV(t *testing.T) {
	store := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	v, ok, _ := store.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, store.Remove(ctx, "a"))
	require.NoError(t, store.Remove(ctx, "missing"))
	_, ok, _ = store.Get(ctx, "a")
	assert.False(t, ok)
}

func TestCartSurvivesThroughRedis(t *testing.T) {
	client, _ := setupRedis(t)
	store := NewRedisKV(client, time.Hour)
	ctx := context.Background()

	raw, err := cartdom.Encode([]cartdom.Line{
		{ProductID: "p1", Name: "Tee", UnitPrice: 200, Quantity: 2, Size: "M", Color: "white"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, cartdom.SessionKey("s1"), raw))

	got, ok, err := store.Get(ctx, cartdom.SessionKey("s1"))
	require.NoError(t, err)
	require.True(t, ok)
	lines, err := cartdom.Decode(got)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}
