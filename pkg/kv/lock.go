package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = time.Minute

// Lock is a best-effort mutual exclusion over a Store key using SETNX + TTL.
type Lock struct {
	store Store
	key   string
	ttl   time.Duration
	owner string
}

func NewLock(store Store, key string, ttl time.Duration) (*Lock, error) {
	if store == nil {
		return nil, errors.New("kv store required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Lock{store: store, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner value still matches. Stores
// without CompareAndDelete fall back to GET then DEL.
func (l *Lock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	owner := l.owner
	l.owner = ""

	if cad, ok := l.store.(CompareAndDeleter); ok {
		if _, err := cad.CompareAndDelete(ctx, l.key, owner); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		return nil
	}

	value, err := l.store.Get(ctx, l.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	return nil
}
