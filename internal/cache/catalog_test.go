package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/dorada-store/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	require.NoError(t, InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    mr.Host(),
		Port:    port,
		Prefix:  "dorada-test",
	}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

type listing struct {
	Quantity int `json:"quantity"`
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	startRedis(t)
	ctx := context.Background()
	c := NewCatalogCache(time.Minute)

	var got listing
	gen, hit, err := c.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "all", gen, listing{Quantity: 5}))
	gen2, hit, err := c.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, gen, gen2)
	assert.Equal(t, 5, got.Quantity)
}

func TestCatalogCacheDropsListingLoadedBeforeInvalidate(t *testing.T) {
	startRedis(t)
	ctx := context.Background()
	c := NewCatalogCache(time.Minute)

	var got listing
	gen, hit, err := c.Get(ctx, "all", &got)
	require.NoError(t, err)
	require.False(t, hit)

	loaded := listing{Quantity: 5}
	// A stock change commits while the listing is being loaded.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, "all", gen, loaded))

	got = listing{}
	newGen, hit, err := c.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.False(t, hit, "listing loaded before the invalidation must not be served")
	assert.Equal(t, gen+1, newGen)
	assert.Zero(t, got.Quantity)
}

func TestCatalogCacheEntriesExpire(t *testing.T) {
	mr := startRedis(t)
	ctx := context.Background()
	c := NewCatalogCache(time.Minute)

	require.NoError(t, c.Set(ctx, "featured", 0, listing{Quantity: 2}))
	mr.FastForward(2 * time.Minute)

	var got listing
	_, hit, err := c.Get(ctx, "featured", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCatalogCacheInertWithoutRedis(t *testing.T) {
	require.NoError(t, InitRedis(&config.RedisConfig{Enabled: false}))
	ctx := context.Background()
	c := NewCatalogCache(0)

	var got listing
	_, hit, err := c.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(ctx, "all", 0, listing{Quantity: 1}))
	assert.NoError(t, c.Invalidate(ctx))

	var nilCache *CatalogCache
	_, hit, err = nilCache.Get(ctx, "all", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
