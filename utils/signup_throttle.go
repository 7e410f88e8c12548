package utils

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/mzportal/config"
)

func signupKey(parts ...string) string {
	return "signup:" + strings.Join(parts, ":")
}

// SignupCooldownTry enforces a short cooldown between signup attempts per IP.
// Without Redis it always allows.
func SignupCooldownTry(ip string) bool {
	sec := config.Get().SignupCooldownSec
	cli := GetRedis()
	if sec <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ok, err := cli.SetNX(ctx, signupKey("cooldown", ip), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		return true // fail-open
	}
	return ok
}

// SignupDailyLimitCheck allows up to N successful signups per day per IP.
func SignupDailyLimitCheck(ip string) bool {
	limit := config.Get().SignupMaxPerIPPerDay
	cli := GetRedis()
	if limit <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := cli.Get(ctx, signupKey("succday", ip, time.Now().Format("20060102"))).Int()
	if err == redis.Nil {
		n = 0
	} else if err != nil {
		return true
	}
	return n < limit
}

// SignupDailyIncrement increments the success counter for today.
func SignupDailyIncrement(ip string) {
	cli := GetRedis()
	if cli == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := signupKey("succday", ip, time.Now().Format("20060102"))
	if err := cli.Incr(ctx, key).Err(); err == nil {
		_ = cli.Expire(ctx, key, 24*time.Hour).Err()
	}
}
