package domain

import (
	"errors"
	"time"
)

// OrderStatus is derived from the paid flag; PAID is terminal.
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("order already exists")
var ErrOrderAlreadyPaid = errors.New("order already paid")

// Order is a purchase of one product by one purchaser. At most one order
// exists per (email, product) pair.
type Order struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Product       string     `json:"product"`
	Quantity      int        `json:"quantity"`
	Price         float64    `json:"price,omitempty"`
	Paid          bool       `json:"paid"`
	TransactionID *string    `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// Status reports the lifecycle state of the order.
func (o *Order) Status() OrderStatus {
	if o.Paid {
		return OrderPaid
	}
	return OrderCreated
}

// PaidWith reports whether the order is paid by the given transaction.
func (o *Order) PaidWith(transactionID string) bool {
	return o.Paid && o.TransactionID != nil && *o.TransactionID == transactionID
}
