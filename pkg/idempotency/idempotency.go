// Package idempotency records which one-shot side effects already ran.
package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store claims keys. The first Claim for a key wins; later claims return false
// until the key expires.
type Store interface {
	Claim(scope, key string) (bool, error)
}

// MemoryStore keeps claims in process memory. Claims never expire.
type MemoryStore struct {
	mu     sync.Mutex
	claims map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[string]struct{})}
}

// Claim records scope/key and reports whether this call was the first.
func (s *MemoryStore) Claim(scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	if _, ok := s.claims[k]; ok {
		return false, nil
	}
	s.claims[k] = struct{}{}
	return true, nil
}

// RedisClient is the part of *redis.Client a RedisStore uses.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisStore keeps claims in Redis with SETNX so several consumers share them.
type RedisStore struct {
	rdb     RedisClient
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisStore creates a RedisStore whose claims live for ttl.
func NewRedisStore(rdb RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, timeout: 3 * time.Second}
}

// Claim sets idemp:<scope>:<key> if absent.
func (s *RedisStore) Claim(scope, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.rdb.SetNX(ctx, "idemp:"+scope+":"+key, "1", s.ttl).Result()
}
