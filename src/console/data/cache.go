package data

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through JSON cache over Redis. It is advisory: any Redis
// failure falls back to the fetch function, never to the caller.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetOrFetch returns the cached JSON for key, or runs fetch, stores the
// marshalled result and returns it.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (interface{}, error)) ([]byte, error) {
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			return raw, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.Printf("cache: failed to store %s: %v", key, err)
		}
	}
	return raw, nil
}

// Invalidate drops keys after a mutation. Best effort.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: failed to invalidate %v: %v", keys, err)
	}
}
