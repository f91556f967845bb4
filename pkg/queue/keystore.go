package queue

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyStore registers idempotent job keys. SetNX returns false when the key
// was already claimed, which is how re-submitted work gets deduplicated.
type KeyStore interface {
	SetNX(ctx context.Context, key string) (bool, error)
}

// MemoryKeyStore is the in-process fallback used when Redis is unavailable
// (single-node deployments, tests).
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]struct{})}
}

func (s *MemoryKeyStore) SetNX(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[key]; exists {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

// RedisKeyStore shares idempotent keys across processes. Keys expire so a
// re-run of an old pipeline is not blocked forever.
type RedisKeyStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisKeyStore(client *redis.Client, ttl time.Duration) *RedisKeyStore {
	return &RedisKeyStore{client: client, ttl: ttl, prefix: "jobkey:"}
}

func (s *RedisKeyStore) SetNX(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, 1, s.ttl).Result()
}
