package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// CreateOrderInput carries the data needed to place an order.
type CreateOrderInput struct {
	Email    string
	Product  string
	Quantity int
	Price    float64
}

// CreateOrderResult is returned by OrderService.Create.
type CreateOrderResult struct {
	// Created is false when an order for the same (email, product) pair already
	// existed; Order is then the existing order.
	Created bool
	Order   *domain.Order
}

// OrderService is the order ledger.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	ListFor(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, transactionID string) (*domain.Order, error)
}
