package handler

import "github.com/teatree/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Identities ---

type upsertIdentityResponse struct {
	Created bool   `json:"created"`
	Token   string `json:"token"`
}

type adminStatusResponse struct {
	Admin bool `json:"admin"`
}

// --- Orders ---

type createOrderRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Product  string  `json:"product"  validate:"required"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price"    validate:"gt=0"`
}

type createOrderResponse struct {
	Created bool          `json:"created"`
	Order   *domain.Order `json:"order"`
}

type deleteOrdersResponse struct {
	Deleted int64 `json:"deleted"`
}

// --- Payments ---

type paymentIntentRequest struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	OrderID  string  `json:"order_id"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type confirmPaymentRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount"         validate:"gt=0"`
	Currency      string  `json:"currency"`
}

// --- Catalog ---

type createProductRequest struct {
	Name              string  `json:"name"               validate:"required"`
	Description       string  `json:"description"`
	Image             string  `json:"image"              validate:"omitempty,url"`
	Price             float64 `json:"price"              validate:"gt=0"`
	MinQuantity       int     `json:"min_quantity"       validate:"gt=0"`
	AvailableQuantity int     `json:"available_quantity" validate:"gt=0"`
}

type createReviewRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type messageResponse struct {
	Message string `json:"message"`
}
