package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailPrefix = "loginfail:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// RegisterLoginFailure bumps the failure counter for an email and returns the
// new count. The counter expires with the lockout window.
func RegisterLoginFailure(ctx context.Context, rdb *redis.Client, email string, window time.Duration) (int64, error) {
	key := loginFailPrefix + email
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		rdb.Expire(ctx, key, window)
	}
	return n, nil
}

func LoginFailures(ctx context.Context, rdb *redis.Client, email string) int64 {
	n, err := rdb.Get(ctx, loginFailPrefix+email).Int64()
	if err != nil {
		return 0
	}
	return n
}

func ClearLoginFailures(ctx context.Context, rdb *redis.Client, email string) {
	if err := rdb.Del(ctx, loginFailPrefix+email).Err(); err != nil {
		log.Printf("Failed to clear login failures for %s: %v", email, err)
	}
}
