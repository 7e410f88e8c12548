package utils

import (
	"context"
	"encoding/json"
	"time"
)

// Cache namespaces. Every key under a prefix is dropped when that resource changes.
const (
	CachePrefixPosts   = "cache:posts:"
	CachePrefixBanners = "cache:banners:"

	CacheKeyPostList   = CachePrefixPosts + "list"
	CacheKeyBannerList = CachePrefixBanners + "list"

	defaultCacheTTL = time.Hour
)

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes with the given TTL, or the default TTL when ttl <= 0.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// CacheSetEnvelope stores data wrapped in the standard success envelope so hits can be served verbatim.
func CacheSetEnvelope(key string, data interface{}, ttl time.Duration) {
	b, err := json.Marshal(JSONResponse{Code: 0, Message: "success", Data: data})
	if err != nil {
		return
	}
	CacheSetBytes(key, b, ttl)
}

// InvalidateByPrefix drops every cached key under prefix and returns how many were removed.
func InvalidateByPrefix(prefix string) int {
	rc := GetRedis()
	if rc == nil || prefix == "" {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	removed := 0
	batch := make([]string, 0, 100)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := rc.Unlink(ctx, batch...).Result()
		if err != nil {
			Sugar.Warnf("cache invalidate failed prefix=%s err=%v", prefix, err)
		}
		removed += int(n)
		batch = batch[:0]
	}
	iter := rc.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			flush()
		}
	}
	if err := iter.Err(); err != nil {
		Sugar.Warnf("cache scan failed prefix=%s err=%v", prefix, err)
	}
	flush()
	return removed
}
