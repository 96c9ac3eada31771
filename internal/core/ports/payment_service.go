package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// CreateIntentInput carries a payment intent request. Amount is in major
// currency units.
type CreateIntentInput struct {
	Email    string
	Amount   float64
	Currency string
	OrderID  string // optional
}

// ConfirmPaymentInput carries an external payment confirmation.
type ConfirmPaymentInput struct {
	OrderID       string
	TransactionID string
	Amount        float64
	Currency      string
	Email         string
}

// PaymentService is the payment reconciler.
type PaymentService interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (string, error)
	Confirm(ctx context.Context, input ConfirmPaymentInput) (*domain.Order, error)
}

// ReconcileTask asks a worker to re-apply the paid transition for a recorded payment.
type ReconcileTask struct {
	OrderID       string
	TransactionID string
}

// ReconcileService repairs payments recorded without the matching paid order.
type ReconcileService interface {
	Sweep(ctx context.Context) (int, error)
	Apply(ctx context.Context, task ReconcileTask) error
}
