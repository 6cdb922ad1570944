// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache for the public
// blog. The index (per category filter) and each post page are cached
// after rendering; admin writes invalidate the affected keys so readers
// never see stale listings for long.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidatePost removes a single cached post page by its slug.
func (pc *PageCache) InvalidatePost(ctx context.Context, slug string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+PostKey(slug)).Err(); err != nil {
		slog.Warn("page cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("page cache invalidated", "slug", slug)
}

// InvalidateIndex removes every cached index variant (one per category
// filter) by scanning for the index prefix.
func (pc *PageCache) InvalidateIndex(ctx context.Context) {
	pc.deleteByPattern(ctx, pageKeyPrefix+"index:*")
}

// InvalidateAll removes all cached pages. Used when a category changes,
// since its name and slug appear in every page's sidebar.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	pc.deleteByPattern(ctx, pageKeyPrefix+"*")
}

// deleteByPattern scans and deletes keys matching the given pattern.
func (pc *PageCache) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "pattern", pattern, "deleted", deleted)
	}
}

// IndexKey returns the cache key for the post index. The selected
// category slug is part of the key; the unfiltered index uses an empty
// slug.
func IndexKey(categorySlug string) string {
	return "index:" + categorySlug
}

// PostKey returns the cache key for a single post page.
func PostKey(slug string) string {
	return "post:" + slug
}
