package cart

import (
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
)

// Resolve joins entries with the catalog, keeping entry order. Entries whose
// product is not in the catalog are dropped without error: they point at
// products that have since been removed.
func Resolve(entries []Entry, catalog []product.Product) []LineItem {
	items, _ := Reconcile(entries, catalog)
	return items
}

// Reconcile is Resolve that also reports the product ids it dropped.
func Reconcile(entries []Entry, catalog []product.Product) ([]LineItem, []string) {
	if len(entries) == 0 || len(catalog) == 0 {
		return []LineItem{}, nil
	}

	byID := make(map[string]product.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	items := make([]LineItem, 0, len(entries))
	var dropped []string
	for _, e := range entries {
		p, ok := byID[e.ProductID]
		if !ok {
			dropped = append(dropped, e.ProductID)
			continue
		}
		items = append(items, LineItem{
			Product:   p,
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
		})
	}

	return items, dropped
}

// TotalValue is Σ cost × quantity. No rounding is applied.
func TotalValue(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// CalculateTotals summarises resolved items
func CalculateTotals(items []LineItem) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
	}
	totals.TotalValue = TotalValue(items)
	return totals
}
