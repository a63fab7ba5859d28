package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	missing, err := repo.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryCacheGetReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("abc"), 0))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))

	existed, err := repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestMemoryCacheSetIfNotExists(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	claimed, err := repo.SetIfNotExists(ctx, "claim", []byte("a"), time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.SetIfNotExists(ctx, "claim", []byte("b"), time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.Get(ctx, "claim")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)
}

func TestMemoryCacheSetIfNotExistsReclaimsExpired(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	ctx := context.Background()

	claimed, err := repo.SetIfNotExists(ctx, "claim", []byte("a"), time.Millisecond)
	require.NoError(t, err)
	assert.True(t, claimed)

	time.Sleep(5 * time.Millisecond)

	claimed, err = repo.SetIfNotExists(ctx, "claim", []byte("b"), time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestMemoryCacheHealth(t *testing.T) {
	t.Parallel()

	repo := NewMemoryCacheRepo()
	assert.NoError(t, repo.Health(context.Background()))
}
