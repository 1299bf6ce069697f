package session

import (
	"context"
	"time"

	"bilan/internal/cache"
	"bilan/internal/core"
)

// MemoryStore keeps sessions in an in-process LRU cache with TTL eviction.
// This is the default backend: nothing survives a restart.
type MemoryStore struct {
	cache *cache.LRUCache[[]core.Transaction]
}

// NewMemoryStore creates a memory store holding at most maxSessions sessions,
// each expiring after ttl.
func NewMemoryStore(maxSessions int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.NewLRUCache[[]core.Transaction](maxSessions, ttl),
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, txns []core.Transaction) error {
	s.cache.Set(id, append([]core.Transaction(nil), txns...))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]core.Transaction, error) {
	txns, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return txns, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// CleanExpired drops expired sessions and returns how many were removed.
// Satisfies cache.Cleaner so the store can join periodic cleanup.
func (s *MemoryStore) CleanExpired() int {
	return s.cache.CleanExpired()
}
