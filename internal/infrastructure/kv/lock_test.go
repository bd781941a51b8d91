package kv

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore hides MemoryStore's WithLock so WithLock takes the
// process-local path.
type plainStore struct{ Store }

func incrementUnderLock(t *testing.T, store Store, key string, writers int) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(ctx, store, key, func(ctx context.Context) error {
				raw, _, err := store.Get(ctx, key)
				if err != nil {
					return err
				}
				n, _ := strconv.Atoi(raw)
				time.Sleep(time.Millisecond)
				return store.Set(ctx, key, strconv.Itoa(n+1))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestWithLock_SerializesWriters(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{name: "memory store", store: NewMemoryStore()},
		{name: "namespaced memory store", store: Namespace(NewMemoryStore(), VisitorKey("v1"))},
		{name: "store without locker", store: plainStore{NewMemoryStore()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incrementUnderLock(t, tt.store, "counter", 10)

			raw, found, err := tt.store.Get(context.Background(), "counter")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "10", raw)
		})
	}

	processLocks.mu.Lock()
	defer processLocks.mu.Unlock()
	assert.Empty(t, processLocks.locks)
}

func TestWithLock_NamespaceLocksPrefixedKey(t *testing.T) {
	mem := NewMemoryStore()
	visitor := Namespace(mem, VisitorKey("v1"))
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = mem.WithLock(context.Background(), "visitor:v1:guestCart", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := WithLock(ctx, visitor, "guestCart", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = WithLock(context.Background(), Namespace(mem, VisitorKey("v2")), "guestCart", func(context.Context) error { return nil })
	assert.NoError(t, err)

	close(release)
	require.NoError(t, WithLock(context.Background(), visitor, "guestCart", func(context.Context) error { return nil }))
}

func TestWithLock_ReturnsCallbackError(t *testing.T) {
	mem := NewMemoryStore()
	err := WithLock(context.Background(), mem, "guestCart", func(context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	require.NoError(t, WithLock(context.Background(), mem, "guestCart", func(context.Context) error { return nil }))
	assert.Empty(t, mem.locks.locks)
}

func TestPostgresStore_WithLockUsesAdvisoryLock(t *testing.T) {
	store, mock := newMockPostgresStore(t, 0)

	mock.ExpectExec(`SELECT pg_advisory_lock\(hashtext\(\$1\)\)`).
		WithArgs("visitor:v1:guestCart").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT pg_advisory_unlock\(hashtext\(\$1\)\)`).
		WithArgs("visitor:v1:guestCart").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ran := false
	err := store.WithLock(context.Background(), "visitor:v1:guestCart", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}
