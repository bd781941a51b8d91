package cart

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) GetCart(ctx context.Context, token string) ([]Entry, error) {
	args := m.Called(ctx, token)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

func (m *mockRemote) UpsertCartEntry(ctx context.Context, token, productID string, qty int) ([]Entry, error) {
	args := m.Called(ctx, token, productID, qty)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]product.Product)
	return products, args.Error(1)
}
