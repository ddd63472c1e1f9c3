// internal/adapters/out/kv/session_store.go
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const adminSessionPrefix = "admin_session:"

// RedisSessionStore keeps admin session tokens as email values with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Put(ctx context.Context, token, email string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return errNilClient
	}
	if err := s.client.Set(ctx, adminSessionPrefix+token, email, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, errNilClient
	}
	v, err := s.client.Get(ctx, adminSessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get session failed: %w", err)
	}
	return v, strings.TrimSpace(v) != "", nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if s == nil || s.client == nil {
		return errNilClient
	}
	return s.client.Del(ctx, adminSessionPrefix+token).Err()
}

// MemorySessionStore is the single-process fallback.
type MemorySessionStore struct {
	mu  sync.Mutex
	m   map[string]memorySession
	now func() time.Time
}

type memorySession struct {
	email   string
	expires time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return NewMemorySessionStoreWithClock(time.Now)
}

func NewMemorySessionStoreWithClock(now func() time.Time) *MemorySessionStore {
	return &MemorySessionStore{m: map[string]memorySession{}, now: now}
}

func (s *MemorySessionStore) Put(_ context.Context, token, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = memorySession{email: email, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[token]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.m, token)
		return "", false, nil
	}
	return e.email, true, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}
