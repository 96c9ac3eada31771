package domain

import (
	"errors"
	"time"
)

const DefaultCurrency = "usd"

var ErrInvalidAmount = errors.New("invalid amount")
var ErrUpstreamUnavailable = errors.New("payment processor unavailable")
var ErrDuplicatePayment = errors.New("payment already recorded")
var ErrPaymentNotFound = errors.New("payment not found")

// ErrStoreUnavailable wraps every persistence failure that is not a domain outcome.
var ErrStoreUnavailable = errors.New("store unavailable")

// Payment records a confirmed charge against exactly one order.
type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentIntent is the audit trail of an intent requested from the processor.
type PaymentIntent struct {
	IntentID    string
	Email       string
	AmountMinor int64
	Currency    string
	OrderID     string
	CreatedAt   time.Time
}
