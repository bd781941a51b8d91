// internal/domain/cart/entity.go
package cart

import (
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
)

// GuestCartKey is the persistence key of an anonymous visitor's cart
const GuestCartKey = "guestCart"

// Entry is one line of a cart before it is joined with the catalog.
// Quantity 0 means the line is removed.
type Entry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// LineItem is an Entry joined with its product. Rebuilt on every read,
// never persisted.
type LineItem struct {
	product.Product
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// Subtotal is cost × quantity for the line
func (l LineItem) Subtotal() float64 {
	return l.Cost * float64(l.Quantity)
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	TotalValue    float64 `json:"total_value"`    // Σ cost × qty
}

// View is a resolved cart ready to render
type View struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}
