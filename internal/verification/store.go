package verification

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by a Store when a key is missing or expired.
var ErrKeyNotFound = errors.New("verification: key not found")

// ErrValueMismatch is returned by Consume when the key holds a different value.
var ErrValueMismatch = errors.New("verification: value mismatch")

// Store is a small key-value store with per-key expiry.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Consume deletes key only if it currently holds value. The check and the
	// delete are a single step, so a value can be consumed at most once.
	Consume(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
