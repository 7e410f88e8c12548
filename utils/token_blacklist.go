package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistKeyPrefix = "jwt:blacklist:"

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration to support logout semantics.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	// Prefer Redis: key with TTL until token expiration
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
	}
	// Fallback to in-memory
	blacklistMu.Lock()
	pruneBlacklistLocked()
	blacklist[token] = expiresAt
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil && n > 0 {
			return true
		}
		// On Redis error fall through to memory, tokens may have been revoked while Redis was down
	}
	blacklistMu.RLock()
	expiresAt, ok := blacklist[token]
	blacklistMu.RUnlock()
	return ok && time.Now().Before(expiresAt)
}

func pruneBlacklistLocked() {
	now := time.Now()
	for token, exp := range blacklist {
		if now.After(exp) {
			delete(blacklist, token)
		}
	}
}
