// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
)

// Catalog provides the products cart entries are joined with
type Catalog interface {
	List(ctx context.Context) ([]product.Product, error)
}

// Service handles cart reads and writes for both guest and signed-in
// visitors. A nil session means the visitor is a guest and the cart lives
// in the visitor's store; otherwise the backend owns the cart.
type Service struct {
	remote  Remote
	catalog Catalog
	logger  *logrus.Logger
}

// NewService creates a new cart service
func NewService(remote Remote, catalog Catalog, logger *logrus.Logger) *Service {
	return &Service{
		remote:  remote,
		catalog: catalog,
		logger:  logger,
	}
}

// Entries returns the visitor's cart entries
func (s *Service) Entries(ctx context.Context, store kv.Store, sess *session.Session) ([]Entry, error) {
	if sess == nil {
		return NewGuestStore(store).Load(ctx)
	}

	entries, err := s.remote.GetCart(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Add puts one unit of productID in the cart. ErrAlreadyInCart is returned,
// together with the unchanged entries, if the product is already there.
func (s *Service) Add(ctx context.Context, store kv.Store, sess *session.Session, productID string) ([]Entry, error) {
	if sess == nil {
		entries, added, err := NewGuestStore(store).AddItem(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !added {
			return entries, ErrAlreadyInCart
		}
		return entries, nil
	}

	current, err := s.Entries(ctx, store, sess)
	if err != nil {
		return nil, err
	}
	if indexOf(current, productID) >= 0 {
		return current, ErrAlreadyInCart
	}

	return s.upsert(ctx, sess, productID, 1)
}

// SetQuantity changes the quantity of a product in the cart. Quantities
// below 1 remove it.
func (s *Service) SetQuantity(ctx context.Context, store kv.Store, sess *session.Session, productID string, qty int) ([]Entry, error) {
	if qty < 1 {
		qty = 0
	}

	if sess == nil {
		return NewGuestStore(store).UpdateQuantity(ctx, productID, qty)
	}

	return s.upsert(ctx, sess, productID, qty)
}

// View resolves the cart against the catalog and totals it
func (s *Service) View(ctx context.Context, store kv.Store, sess *session.Session) (*View, error) {
	entries, err := s.Entries(ctx, store, sess)
	if err != nil {
		return nil, err
	}

	return s.Resolve(ctx, entries)
}

// Resolve joins already-fetched entries with the catalog
func (s *Service) Resolve(ctx context.Context, entries []Entry) (*View, error) {
	if len(entries) == 0 {
		return &View{Items: []LineItem{}}, nil
	}

	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	items, dropped := Reconcile(entries, catalog)
	if len(dropped) > 0 {
		s.logger.WithField("product_ids", dropped).Debug("Dropped cart entries for unknown products")
	}

	return &View{
		Items:  items,
		Totals: CalculateTotals(items),
	}, nil
}

func (s *Service) upsert(ctx context.Context, sess *session.Session, productID string, qty int) ([]Entry, error) {
	entries, err := s.remote.UpsertCartEntry(ctx, sess.Token, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
