// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Catalog is the remote product catalog
type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// Service handles catalog reads
type Service struct {
	catalog Catalog
	logger  *logrus.Logger
}

// NewService creates a new product service
func NewService(catalog Catalog, logger *logrus.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

// List returns the full catalog
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Search runs a catalog search. A blank query reloads the full catalog
// instead of asking the backend for an empty search.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.List(ctx)
	}

	products, err := s.catalog.SearchProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}

	s.logger.WithFields(logrus.Fields{
		"query":   q,
		"matches": len(products),
	}).Debug("Product search completed")

	return products, nil
}
