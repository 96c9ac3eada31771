package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// PaymentRepository persists payment records and intent audit entries.
type PaymentRepository interface {
	// Insert stores a payment record. It returns domain.ErrDuplicatePayment
	// when a record for the same order already exists.
	Insert(ctx context.Context, p *domain.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	// ListUnreconciled returns payment records whose order still exists but is
	// not marked paid.
	ListUnreconciled(ctx context.Context, limit int) ([]*domain.Payment, error)
	InsertIntent(ctx context.Context, intent *domain.PaymentIntent) error
}

// PaymentProcessor is the external card-payment processor.
type PaymentProcessor interface {
	// CreateIntent requests a payment intent for amountMinor units of currency
	// and returns the processor's intent id and the client secret.
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (intentID, clientSecret string, err error)
}
