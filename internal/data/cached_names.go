package data

import (
	"context"
	"time"

	"github.com/ecs-refurb/shoptrack/internal/core"
)

// nameCacheTTL bounds how long a resolved display name is reused. Names
// change rarely; the TTL exists so a renamed technician is not attributed
// under the old name forever.
const nameCacheTTL = 12 * time.Hour

const nameCacheKeyPrefix = "shoptrack:username:"

// CachedNameResolver decorates a NameResolver with cache-aside lookups, so
// repeated submissions from the same technician cost one vendor call per TTL.
type CachedNameResolver struct {
	inner core.NameResolver
	cache core.CacheRepository
}

// NewCachedNameResolver wraps inner with cache-aside lookups through cache.
func NewCachedNameResolver(inner core.NameResolver, cache core.CacheRepository) *CachedNameResolver {
	return &CachedNameResolver{inner: inner, cache: cache}
}

// ResolveDisplayName returns the cached display name when present, otherwise
// resolves through the inner resolver and stores the result. Cache errors are
// ignored; the resolver degrades to pass-through.
func (r *CachedNameResolver) ResolveDisplayName(ctx context.Context, userID string) (string, error) {
	key := nameCacheKeyPrefix + userID
	if cached, err := r.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		return string(cached), nil
	}

	name, err := r.inner.ResolveDisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	_ = r.cache.Set(ctx, key, []byte(name), nameCacheTTL)
	return name, nil
}
