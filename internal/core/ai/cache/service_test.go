package cache

import (
	"context"
	"testing"

	"smartpantry/internal/infrastructure/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisService, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewRedisServiceWithClient(client)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, client, mr
}

func TestRedisServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := newTestRedis(t)

	require.NoError(t, svc.Set(ctx, "smartpantry_v1_image_omelette", `"v1"`))
	require.NoError(t, svc.Set(ctx, "smartpantry_v1_image_omelette", `"v2"`))

	got, err := svc.Get(ctx, "smartpantry_v1_image_omelette")
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, got)
	assert.True(t, mr.Exists("smartpantry_v1_image_omelette"))

	require.NoError(t, svc.Delete(ctx, "smartpantry_v1_image_omelette"))
	_, err = svc.Get(ctx, "smartpantry_v1_image_omelette")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisServiceMissIsNotFound(t *testing.T) {
	svc, _, _ := newTestRedis(t)

	_, err := svc.Get(context.Background(), "never_written")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisServiceWritesWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	svc, client, _ := newTestRedis(t)

	require.NoError(t, svc.Set(ctx, "smart_pantry", "[]"))

	ttl, err := client.Do(ctx, "TTL", "smart_pantry").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), ttl)
}

func TestRedisServiceConnectionErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := newTestRedis(t)
	mr.Close()

	_, err := svc.Get(ctx, "smart_pantry")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, svc.Set(ctx, "smart_pantry", "[]"))
}

func TestNewRedisServicePingsOnConstruction(t *testing.T) {
	mr := miniredis.RunT(t)

	svc, err := NewRedisService(&config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	mr.Close()
	_, err = NewRedisService(&config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}

func TestNewBackendRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	backend, err := NewBackend(&config.CacheConfig{
		Backend: config.BackendRedis,
		Redis:   config.RedisConfig{Addr: mr.Addr()},
	})
	require.NoError(t, err)
	defer backend.Close()

	_, ok := backend.(*RedisService)
	assert.True(t, ok)
}
