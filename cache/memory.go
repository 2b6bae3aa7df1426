package cache

import (
	"context"
	"math/rand/v2"
	"sync"
)

// MemoryStore is the single-process Store: a mutex-guarded two-level
// map from key to tag to payload. It has no TTL support; unbounded
// growth is bounded by a probabilistic full clear on eviction, which is
// a memory safety valve only and never a correctness mechanism.
type MemoryStore struct {
	mu         sync.RWMutex
	buckets    map[string]map[string][]byte
	sweepEvery int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSweepEvery sets the expected number of Evict calls between full
// clears. The default is 1000; zero or negative disables the sweep.
func WithSweepEvery(n int) MemoryOption {
	return func(s *MemoryStore) { s.sweepEvery = n }
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		buckets:    make(map[string]map[string][]byte),
		sweepEvery: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key, tag string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.buckets[key][tag]
	return payload, ok, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key, tag string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.buckets[key]
	if !ok {
		bucket = make(map[string][]byte)
		s.buckets[key] = bucket
	}
	bucket[tag] = payload
	return nil
}

// Evict implements Store. Occasionally the whole store is cleared to
// keep memory bounded in the absence of TTLs.
func (s *MemoryStore) Evict(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.buckets, key)
	}
	if s.sweepEvery > 0 && rand.IntN(s.sweepEvery) == 0 {
		s.buckets = make(map[string]map[string][]byte)
	}
	return nil
}

// Len returns the number of key buckets currently held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

var _ Store = (*MemoryStore)(nil)
