package cachemanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"eqtint/internal/annot"
)

// SourceKey identifies a document by the hash of its raw text, so two
// saves with identical content share one cache entry.
type SourceKey string

// KeyFor hashes raw source text into a cache key.
func KeyFor(source string) SourceKey {
	sum := sha256.Sum256([]byte(source))
	return SourceKey(hex.EncodeToString(sum[:]))
}

// ParseCache is a read-through cache over the annotation parser. Skip
// bypasses the cache entirely (the --no-cache path) without changing
// call sites.
type ParseCache struct {
	cache CacheManager[SourceKey, *annot.Content]
	skip  bool
}

func NewParseCache(cache CacheManager[SourceKey, *annot.Content], skip bool) *ParseCache {
	return &ParseCache{cache: cache, skip: skip}
}

// Parse returns the cached Content for source, parsing on a miss. A hit
// refreshes the entry's ttl since the document is evidently still open.
func (p *ParseCache) Parse(ctx context.Context, source string, ttl time.Duration) *annot.Content {
	if p.skip {
		return annot.Parse(source)
	}

	key := KeyFor(source)
	if c, ok := p.cache.GetWithRefresh(ctx, key, ttl); ok {
		return c
	}

	c := annot.Parse(source)
	p.cache.Set(ctx, key, c, ttl)
	return c
}
