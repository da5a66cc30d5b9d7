package idempotency

import (
	"context"
	"time"
)

// Entry records an identifier minted for a logical request.
type Entry struct {
	// ID is the identifier returned to the caller (e.g. a ticket ID).
	ID string `json:"id"`
	// CreatedAt is the instant the identifier was minted.
	CreatedAt time.Time `json:"created_at"`
}

// Store is the port for the short-lived dedup cache that suppresses duplicate
// side-effecting calls within a time window. It is advisory only: losing its
// contents is safe, so implementations need no durability guarantees.
type Store interface {
	// Get returns the entry for a key, or nil when no unexpired entry exists.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores an entry under key. Entries older than ttl may be evicted.
	Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error

	// Sweep evicts entries older than maxAge to bound memory. Implementations
	// backed by a store with native expiry may treat this as a no-op.
	Sweep(ctx context.Context, maxAge time.Duration) error

	// Close releases any resources held by the store.
	Close() error
}
