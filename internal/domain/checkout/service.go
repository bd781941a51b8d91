// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
)

// ErrLoginRequired is returned when a guest tries to check out
var ErrLoginRequired = errors.New("login required to checkout")

// Reasons an order cannot be placed
const (
	ReasonEmptyCart           = "Cart is empty. Add items to the cart to checkout"
	ReasonInsufficientBalance = "You do not have enough balance in your wallet for this purchase"
)

// CartViewer resolves a visitor's cart
type CartViewer interface {
	View(ctx context.Context, store kv.Store, sess *session.Session) (*cart.View, error)
}

// Service handles checkout business logic
type Service struct {
	carts  CartViewer
	logger *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts CartViewer, logger *logrus.Logger) *Service {
	return &Service{
		carts:  carts,
		logger: logger,
	}
}

// CheckoutSummary represents the checkout page of a signed-in visitor
type CheckoutSummary struct {
	Cart          *cart.View `json:"cart"`
	Total         float64    `json:"total"`
	Balance       float64    `json:"balance"`
	BalanceAfter  float64    `json:"balance_after"`
	CanPlaceOrder bool       `json:"can_place_order"`
	Reason        string     `json:"reason,omitempty"`
}

// GetCheckoutSummary builds the checkout summary. Guests get
// ErrLoginRequired.
func (s *Service) GetCheckoutSummary(ctx context.Context, store kv.Store, sess *session.Session) (*CheckoutSummary, error) {
	if sess == nil {
		return nil, ErrLoginRequired
	}

	view, err := s.carts.View(ctx, store, sess)
	if err != nil {
		return nil, err
	}

	summary := &CheckoutSummary{
		Cart:          view,
		Total:         view.Totals.TotalValue,
		Balance:       sess.Balance,
		BalanceAfter:  sess.Balance - view.Totals.TotalValue,
		CanPlaceOrder: true,
	}

	switch {
	case len(view.Items) == 0:
		summary.CanPlaceOrder = false
		summary.Reason = ReasonEmptyCart
	case sess.Balance < summary.Total:
		summary.CanPlaceOrder = false
		summary.Reason = ReasonInsufficientBalance
	}

	s.logger.WithFields(logrus.Fields{
		"username":        sess.Username,
		"total":           summary.Total,
		"can_place_order": summary.CanPlaceOrder,
	}).Debug("Checkout summary built")

	return summary, nil
}
