package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

// PaymentHandler serves payment intent issuance and payment confirmation.
type PaymentHandler struct {
	payments ports.PaymentService
	orders   ports.OrderService
	admins   AdminChecker
}

func NewPaymentHandler(payments ports.PaymentService, orders ports.OrderService, admins AdminChecker) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders, admins: admins}
}

// CreateIntent handles POST /create-payment-intent.
//
// @Summary      Create a card payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      paymentIntentRequest   true  "Price in major units"
// @Success      200   {object}  paymentIntentResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}

	var req paymentIntentRequest
	if err := c.Bind(&req); err != nil {
		// a non-numeric price fails to bind
		metrics.PaymentIntentsTotal.WithLabelValues("invalid_amount").Inc()
		return domain.ErrInvalidAmount
	}

	if req.OrderID != "" {
		order, err := h.orders.FindByID(c.Request().Context(), req.OrderID)
		if err != nil {
			return err
		}
		if err := authorizeSelfOrAdmin(c, h.admins, order.Email); err != nil {
			return err
		}
	}

	secret, err := h.payments.CreateIntent(c.Request().Context(), ports.CreateIntentInput{
		Email:    email,
		Amount:   req.Price,
		Currency: req.Currency,
		OrderID:  req.OrderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			metrics.PaymentIntentsTotal.WithLabelValues("invalid_amount").Inc()
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			metrics.PaymentIntentsTotal.WithLabelValues("upstream_error").Inc()
		}
		return err
	}

	metrics.PaymentIntentsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}

// Confirm handles PATCH /purchase/:id: records the payment and marks the
// order paid.
//
// @Summary      Confirm payment of an order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Order id"
// @Param        body  body      confirmPaymentRequest  true  "Payment confirmation"
// @Success      200   {object}  domain.Order
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /purchase/{id} [patch]
func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	orderID := c.Param("id")
	order, err := h.orders.FindByID(c.Request().Context(), orderID)
	if err != nil {
		return err
	}
	if err := authorizeSelfOrAdmin(c, h.admins, order.Email); err != nil {
		return err
	}

	updated, err := h.payments.Confirm(c.Request().Context(), ports.ConfirmPaymentInput{
		OrderID:       order.ID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Email:         order.Email,
	})
	if err != nil {
		return err
	}

	metrics.PaymentsConfirmedTotal.Inc()
	return c.JSON(http.StatusOK, updated)
}
