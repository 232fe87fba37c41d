// Package kv abstracts the small key-value surface used for carts, checkout
// sessions and request idempotency.
package kv

import (
	"context"
	"errors"
	"strings"
	"time"
)

const keyNamespace = "izz"

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is implemented by the Redis client and by Memory.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// CompareAndDeleter is implemented by stores that can delete a key only
// while it still holds an expected value, in one atomic step.
type CompareAndDeleter interface {
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
}

// Key builds a namespaced key, skipping empty parts.
func Key(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
