package idempotency

import (
	"context"
	"sync"
	"time"

	"support-agent/internal/core/logger"

	"go.uber.org/zap"
)

// MemoryStore implements the Store interface with a process-local map.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
}

// Get returns the entry for a key, or nil when absent or expired.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	me, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !me.expiresAt.IsZero() && time.Now().After(me.expiresAt) {
		return nil, nil
	}

	e := me.entry
	return &e, nil
}

// Put stores an entry under key with the given TTL. TTL of 0 means no expiry
// beyond the background sweep.
func (s *MemoryStore) Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	me := memoryEntry{entry: entry}
	if ttl > 0 {
		me.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = me
	s.mu.Unlock()
	return nil
}

// Sweep removes entries whose identifier was minted more than maxAge ago.
func (s *MemoryStore) Sweep(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, me := range s.entries {
		if me.entry.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
	return nil
}

// StartSweeper launches a background goroutine that sweeps entries older than
// maxAge every interval. It stops when Close is called.
func (s *MemoryStore) StartSweeper(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.Sweep(context.Background(), maxAge); err != nil {
					logger.Get().Warn("Idempotency sweep failed", zap.Error(err))
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
