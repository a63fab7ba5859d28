package data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls int
	name  string
	err   error
}

func (r *countingResolver) ResolveDisplayName(context.Context, string) (string, error) {
	r.calls++
	return r.name, r.err
}

func TestCachedNameResolverHitsVendorOnce(t *testing.T) {
	t.Parallel()

	inner := &countingResolver{name: "Dana Tech"}
	resolver := NewCachedNameResolver(inner, NewMemoryCacheRepo())
	ctx := context.Background()

	for range 3 {
		name, err := resolver.ResolveDisplayName(ctx, "user-7")
		require.NoError(t, err)
		assert.Equal(t, "Dana Tech", name)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedNameResolverDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	inner := &countingResolver{err: errors.New("vendor down")}
	resolver := NewCachedNameResolver(inner, NewMemoryCacheRepo())
	ctx := context.Background()

	_, err := resolver.ResolveDisplayName(ctx, "user-7")
	require.Error(t, err)
	_, err = resolver.ResolveDisplayName(ctx, "user-7")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedNameResolverSeparatesUsers(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCacheRepo()
	ctx := context.Background()

	a := NewCachedNameResolver(&countingResolver{name: "Dana Tech"}, cache)
	name, err := a.ResolveDisplayName(ctx, "user-7")
	require.NoError(t, err)
	assert.Equal(t, "Dana Tech", name)

	b := NewCachedNameResolver(&countingResolver{name: "Riley Mechanic"}, cache)
	name, err = b.ResolveDisplayName(ctx, "user-8")
	require.NoError(t, err)
	assert.Equal(t, "Riley Mechanic", name)
}
