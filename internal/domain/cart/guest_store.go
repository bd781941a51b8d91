package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
)

var (
	// ErrAlreadyInCart is returned when adding a product the cart already holds
	ErrAlreadyInCart = errors.New("item already in cart")
	// ErrItemNotInCart is returned when updating a product the cart does not hold
	ErrItemNotInCart = errors.New("item not found in cart")
)

// GuestStore keeps an anonymous visitor's cart in the visitor's key-value
// store under GuestCartKey.
type GuestStore struct {
	store kv.Store
}

// NewGuestStore creates a GuestStore over a visitor-scoped store
func NewGuestStore(store kv.Store) *GuestStore {
	return &GuestStore{store: store}
}

// Load returns the stored entries. A missing or unreadable value is an
// empty cart; only store failures are errors.
func (g *GuestStore) Load(ctx context.Context) ([]Entry, error) {
	raw, found, err := g.store.Get(ctx, GuestCartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}
	if !found || raw == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// AddItem appends productID with quantity 1. If the product is already in
// the cart nothing changes and added is false.
func (g *GuestStore) AddItem(ctx context.Context, productID string) (entries []Entry, added bool, err error) {
	err = g.update(ctx, func(current []Entry) ([]Entry, error) {
		entries = current
		if indexOf(current, productID) >= 0 {
			return nil, nil
		}
		entries = append(current, Entry{ProductID: productID, Quantity: 1})
		added = true
		return entries, nil
	})
	if err != nil {
		return nil, false, err
	}
	return entries, added, nil
}

// UpdateQuantity sets the quantity of a product already in the cart.
// A quantity below 1 removes the entry.
func (g *GuestStore) UpdateQuantity(ctx context.Context, productID string, qty int) (entries []Entry, err error) {
	err = g.update(ctx, func(current []Entry) ([]Entry, error) {
		i := indexOf(current, productID)
		if i < 0 {
			return nil, ErrItemNotInCart
		}
		if qty < 1 {
			entries = append(current[:i], current[i+1:]...)
		} else {
			current[i].Quantity = qty
			entries = current
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RemoveSynced drops the entries that still match synced exactly, keeping
// anything added or changed since they were read. The key is deleted once
// nothing is left. It reports how many entries remain.
func (g *GuestStore) RemoveSynced(ctx context.Context, synced []Entry) (remaining int, err error) {
	err = kv.WithLock(ctx, g.store, GuestCartKey, func(ctx context.Context) error {
		current, err := g.Load(ctx)
		if err != nil {
			return err
		}

		kept := make([]Entry, 0, len(current))
		for _, e := range current {
			if !containsEntry(synced, e) {
				kept = append(kept, e)
			}
		}
		remaining = len(kept)

		switch {
		case remaining == 0:
			return g.Clear(ctx)
		case remaining < len(current):
			return g.save(ctx, kept)
		}
		return nil
	})
	return remaining, err
}

// Clear deletes the guest cart
func (g *GuestStore) Clear(ctx context.Context) error {
	if err := g.store.Del(ctx, GuestCartKey); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}

// update runs fn on the current entries under the cart's lock and saves
// what it returns. A nil result leaves the cart untouched.
func (g *GuestStore) update(ctx context.Context, fn func(entries []Entry) ([]Entry, error)) error {
	return kv.WithLock(ctx, g.store, GuestCartKey, func(ctx context.Context) error {
		entries, err := g.Load(ctx)
		if err != nil {
			return err
		}
		next, err := fn(entries)
		if err != nil || next == nil {
			return err
		}
		return g.save(ctx, next)
	})
}

func (g *GuestStore) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if err := g.store.Set(ctx, GuestCartKey, string(data)); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

func containsEntry(entries []Entry, e Entry) bool {
	for _, x := range entries {
		if x == e {
			return true
		}
	}
	return false
}

func indexOf(entries []Entry, productID string) int {
	for i := range entries {
		if entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}
