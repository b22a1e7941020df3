package cache

import (
	"context"
	"fmt"
	"time"
)

const catalogGenerationKey = "catalog:gen"

// CatalogCache stores product listings under a generation number. Bumping
// the generation orphans every older entry, which then expires on its TTL.
type CatalogCache struct {
	ttl time.Duration
}

// NewCatalogCache creates the cache; it is inert while redis is disabled.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{ttl: ttl}
}

// Generation returns the current generation number.
func (c *CatalogCache) Generation(ctx context.Context) (int64, error) {
	if c == nil || !Enabled() {
		return 0, nil
	}
	return GetInt(ctx, catalogGenerationKey)
}

// Get loads a listing stored under key for the current generation and
// returns that generation. Pass it back to Set so a listing loaded before
// an Invalidate lands in the orphaned generation.
func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) (int64, bool, error) {
	if c == nil || !Enabled() {
		return 0, false, nil
	}
	gen, err := c.Generation(ctx)
	if err != nil {
		return 0, false, err
	}
	hit, err := GetJSON(ctx, catalogKey(gen, key), dest)
	return gen, hit, err
}

// Set stores a listing under the generation it was loaded in.
func (c *CatalogCache) Set(ctx context.Context, key string, gen int64, value interface{}) error {
	if c == nil || !Enabled() {
		return nil
	}
	return SetJSON(ctx, catalogKey(gen, key), value, c.ttl)
}

// Invalidate starts a new generation.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || !Enabled() {
		return nil
	}
	_, err := Incr(ctx, catalogGenerationKey)
	return err
}

func catalogKey(gen int64, key string) string {
	return fmt.Sprintf("catalog:%d:%s", gen, key)
}
