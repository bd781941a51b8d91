package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Remote is the authenticated server-side cart
type Remote interface {
	GetCart(ctx context.Context, token string) ([]Entry, error)
	UpsertCartEntry(ctx context.Context, token, productID string, qty int) ([]Entry, error)
}

// SyncResult describes one guest cart merge
type SyncResult struct {
	Total   int     `json:"total"`   // entries found in the guest cart
	Applied int     `json:"applied"` // entries upserted before success or failure
	Cleared bool    `json:"cleared"` // guest cart emptied after a full merge
	Cart    []Entry `json:"-"`       // server cart returned by the last upsert
}

// SyncError reports a merge halted by a failed upsert. Entries before
// ProductID were already applied on the server; the guest cart is kept.
type SyncError struct {
	ProductID string
	Applied   int
	Total     int
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("guest cart sync stopped at %s after %d of %d entries: %v", e.ProductID, e.Applied, e.Total, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// SyncCoordinator moves a guest cart into the authenticated cart right
// after login.
type SyncCoordinator struct {
	remote Remote
	logger *logrus.Logger
}

// NewSyncCoordinator creates a new SyncCoordinator
func NewSyncCoordinator(remote Remote, logger *logrus.Logger) *SyncCoordinator {
	return &SyncCoordinator{
		remote: remote,
		logger: logger,
	}
}

// SyncOnLogin upserts every guest entry, one at a time in cart order, and
// once all of them succeeded removes exactly those entries from the guest
// cart. Entries written meanwhile stay for the next login. The first failure
// stops the merge without retry and leaves the guest cart in place so the
// next login resumes it; upserts are idempotent per product.
func (c *SyncCoordinator) SyncOnLogin(ctx context.Context, guest *GuestStore, token string) (SyncResult, error) {
	entries, err := guest.Load(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Total: len(entries)}
	if len(entries) == 0 {
		return result, nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, c.halt(entry, result, err)
		}

		cart, err := c.remote.UpsertCartEntry(ctx, token, entry.ProductID, entry.Quantity)
		if err != nil {
			return result, c.halt(entry, result, err)
		}
		result.Applied++
		result.Cart = cart
	}

	remaining, err := guest.RemoveSynced(ctx, entries)
	if err != nil {
		return result, err
	}
	result.Cleared = remaining == 0

	c.logger.WithFields(logrus.Fields{
		"entries":   result.Applied,
		"remaining": remaining,
	}).Info("Guest cart synced")
	return result, nil
}

func (c *SyncCoordinator) halt(entry Entry, result SyncResult, err error) error {
	c.logger.WithFields(logrus.Fields{
		"product_id": entry.ProductID,
		"applied":    result.Applied,
		"total":      result.Total,
		"error":      err,
	}).Error("Failed to sync guest cart")

	return &SyncError{
		ProductID: entry.ProductID,
		Applied:   result.Applied,
		Total:     result.Total,
		Err:       err,
	}
}
