package core

import (
	"context"
	"time"
)

// CacheRepository abstracts the key-value store backing the submission
// idempotency ledger. The production implementation is Redis; an in-process
// implementation exists for tests and single-node development. Keeping this
// interface-bound means a horizontally scaled deployment swaps stores, not
// code.
type CacheRepository interface {
	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value, or nil if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Returns true if the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// SetIfNotExists atomically sets a key only if it doesn't already
	// exist. Returns true if the key was set. This is the claim operation
	// the ingestion pipeline relies on to process each submission exactly
	// once under concurrent duplicate deliveries.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}
