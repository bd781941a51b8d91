// internal/domain/product/entity.go
package product

// Product is a catalog item as served by the storefront backend. The
// storefront never mutates products.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   float64 `json:"rating"`
	ImageURL string  `json:"image"`
}
