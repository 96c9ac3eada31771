package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Insert stores a new order and fills its ID. It returns
	// domain.ErrDuplicateOrder when an order for the same (email, product)
	// pair already exists.
	Insert(ctx context.Context, o *domain.Order) error
	FindByEmailAndProduct(ctx context.Context, email, product string) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	// MarkPaid atomically flips an unpaid order to paid. It returns the updated
	// order, or domain.ErrOrderNotFound when no unpaid order with that id exists.
	MarkPaid(ctx context.Context, id, transactionID string) (*domain.Order, error)
}
