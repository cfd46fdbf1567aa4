package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// client is nil when REDIS_ADDR is unset; every helper below degrades to a
// cache miss so the rest of the code never has to care.
var client *redis.Client

// Init connects to Redis when REDIS_ADDR is configured. The cache is purely
// an accelerator for reporting reads; failing to reach Redis only costs
// cache hits, so errors are logged and the server keeps going.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, caching disabled: %v", err)
		return
	}
	client = c
}

// GetJSON loads key into dst. Returns false on miss, disabled cache, or a
// decode failure.
func GetJSON(ctx context.Context, key string, dst any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetJSON stores v under key for ttl. Best-effort.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = client.Set(ctx, key, raw, ttl).Err()
}

// Invalidate drops keys matching the given prefix. Called after mutating
// commits that change what reports would show.
func Invalidate(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = client.Del(ctx, iter.Val()).Err()
	}
}
