package kv

import (
	"context"
	"sync"
)

// Locker is implemented by stores that can serialize read-modify-write
// sequences on a key across every process sharing the backend.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// processLocks guards stores that do not implement Locker.
var processLocks = newKeyedMutex()

// WithLock runs fn while holding the lock for key in store. Stores that are
// not Lockers fall back to a lock local to this process.
func WithLock(ctx context.Context, store Store, key string, fn func(ctx context.Context) error) error {
	if l, ok := store.(Locker); ok {
		return l.WithLock(ctx, key, fn)
	}
	return processLocks.withLock(ctx, key, fn)
}

func (n *namespaced) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return WithLock(ctx, n.store, n.key(key), fn)
}

// keyedMutex hands out one lock per key and forgets keys nobody holds or
// waits for.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (k *keyedMutex) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()
	defer k.release(key, l)

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	return fn(ctx)
}

func (k *keyedMutex) release(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
