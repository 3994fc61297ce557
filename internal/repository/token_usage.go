package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OneShotStore records token ids that have been consumed, so confirmation
// and password-reset tokens cannot be replayed.
type OneShotStore interface {
	// MarkUsed records the token id and reports whether this call was the
	// first use. ttl bounds how long the record is kept; zero keeps it
	// indefinitely.
	MarkUsed(ctx context.Context, kind, tokenID string, ttl time.Duration) (bool, error)
}

type redisOneShotStore struct {
	client *redis.Client
}

// NewRedisOneShotStore returns a Redis-backed implementation.
func NewRedisOneShotStore(client *redis.Client) OneShotStore {
	return &redisOneShotStore{client: client}
}

func (s *redisOneShotStore) MarkUsed(ctx context.Context, kind, tokenID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, "token:"+kind+":"+tokenID, "1", ttl).Result()
}

type memoryOneShotStore struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewMemoryOneShotStore returns an in-process implementation for tests and
// for running without Redis.
func NewMemoryOneShotStore() OneShotStore {
	return &memoryOneShotStore{used: make(map[string]struct{})}
}

func (s *memoryOneShotStore) MarkUsed(_ context.Context, kind, tokenID string, _ time.Duration) (bool, error) {
	key := kind + ":" + tokenID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.used[key]; seen {
		return false, nil
	}
	s.used[key] = struct{}{}
	return true, nil
}
