package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/dorada-store/internal/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreKeysAndExpiry(t *testing.T) {
	store, mr := newRedisStore(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "device-aaaa", constants.DeviceKeyRecentlyViewed, doc{Items: []int{3, 1}}))
	assert.True(t, mr.Exists("dorada_recently_viewed:device-aaaa"), "keys=%v", mr.Keys())
	assert.Equal(t, 24*time.Hour, mr.TTL("dorada_recently_viewed:device-aaaa"))

	var got doc
	ok, err := store.Get(ctx, "device-aaaa", constants.DeviceKeyRecentlyViewed, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{3, 1}, got.Items)

	mr.FastForward(25 * time.Hour)
	ok, err = store.Get(ctx, "device-aaaa", constants.DeviceKeyRecentlyViewed, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreDeleteAndValidation(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "device-bbbb", constants.DeviceKeyCart, doc{Items: []int{1}}))
	assert.Zero(t, mr.TTL("dorada_cart:device-bbbb"), "ttl <= 0 keeps documents")
	require.NoError(t, store.Delete(ctx, "device-bbbb", constants.DeviceKeyCart))
	assert.False(t, mr.Exists("dorada_cart:device-bbbb"))

	var got doc
	_, err := store.Get(ctx, "bad id!", constants.DeviceKeyCart, &got)
	assert.ErrorIs(t, err, ErrInvalidDevice)
	assert.ErrorIs(t, store.Set(ctx, "", constants.DeviceKeyCart, got), ErrInvalidDevice)
}
