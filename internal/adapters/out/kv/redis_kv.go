// internal/adapters/out/kv/redis_kv.go
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	cartdom "fisha/internal/domain/cart"
)

// RedisKV is the durable cart.KVStore. Every write refreshes the TTL so an
// idle cart eventually expires.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	if ttl <= 0 {
		ttl = cartdom.DefaultCartTTL
	}
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	if r == nil || r.client == nil {
		return "", false, errNilClient
	}
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Remove is idempotent: DEL of a missing key is not an error.
func (r *RedisKV) Remove(ctx context.Context, key string) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
