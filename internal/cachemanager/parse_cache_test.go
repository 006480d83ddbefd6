package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqtint/internal/annot"
)

func newTestCache() *InMemoryCacheManager[SourceKey, *annot.Content] {
	return NewInMemoryCacheManager[SourceKey, *annot.Content]("test", DefaultExpiration, DefaultCleanupInterval)
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, KeyFor("same"), KeyFor("same"))
	assert.NotEqual(t, KeyFor("one"), KeyFor("two"))
	assert.Len(t, string(KeyFor("x")), 64)
}

func TestInMemoryCacheManager(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache()
	c := annot.Parse("# Doc\n")

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Set(ctx, "k", c, time.Minute)
	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Same(t, c, got)

	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.Set(ctx, "a", c, time.Minute)
	cache.Set(ctx, "b", c, time.Minute)
	require.NoError(t, cache.Flush(ctx))
	_, ok = cache.Get(ctx, "a")
	assert.False(t, ok)
}

func TestParseCache_HitReturnsSameContent(t *testing.T) {
	ctx := context.Background()
	pc := NewParseCache(newTestCache(), false)

	first := pc.Parse(ctx, "# Doc\n", time.Minute)
	second := pc.Parse(ctx, "# Doc\n", time.Minute)
	assert.Same(t, first, second)
}

func TestParseCache_DifferentSourcesDifferentEntries(t *testing.T) {
	ctx := context.Background()
	pc := NewParseCache(newTestCache(), false)

	a := pc.Parse(ctx, "# One\n", time.Minute)
	b := pc.Parse(ctx, "# Two\n", time.Minute)
	assert.Equal(t, "One", a.Title)
	assert.Equal(t, "Two", b.Title)
}

func TestParseCache_SkipBypassesCache(t *testing.T) {
	ctx := context.Background()
	pc := NewParseCache(newTestCache(), true)

	first := pc.Parse(ctx, "# Doc\n", time.Minute)
	second := pc.Parse(ctx, "# Doc\n", time.Minute)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Title, second.Title)
}
