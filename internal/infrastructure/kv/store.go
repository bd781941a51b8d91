// Package kv is the key-value persistence surface the storefront keeps
// per-visitor state in: the session keys and the guest cart.
package kv

import (
	"context"
)

// Store is the capability set every persistence backend offers.
// Del removes all given keys as one unit.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}

type namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a view of store whose keys live under prefix.
func Namespace(store Store, prefix string) Store {
	if n, ok := store.(*namespaced); ok {
		return &namespaced{store: n.store, prefix: n.prefix + ":" + prefix}
	}
	return &namespaced{store: store, prefix: prefix}
}

// VisitorKey is the namespace of one browser visitor.
func VisitorKey(visitorID string) string {
	return "visitor:" + visitorID
}

func (n *namespaced) key(k string) string {
	return n.prefix + ":" + k
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.key(key))
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.key(key), value)
}

func (n *namespaced) Del(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.key(k)
	}
	return n.store.Del(ctx, full...)
}

// Prefix reports the namespace of a store created by Namespace, or "".
func Prefix(store Store) string {
	if n, ok := store.(*namespaced); ok {
		return n.prefix
	}
	return ""
}
