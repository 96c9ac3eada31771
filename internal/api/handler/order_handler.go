package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

// OrderHandler serves the /purchase and /allOrder routes.
type OrderHandler struct {
	orders ports.OrderService
	admins AdminChecker
}

func NewOrderHandler(orders ports.OrderService, admins AdminChecker) *OrderHandler {
	return &OrderHandler{orders: orders, admins: admins}
}

// Create handles POST /purchase. Creating the same (email, product) order
// twice returns the first order with created=false.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order"
// @Success      200   {object}  createOrderResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /purchase [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	// an authenticated caller may only order for itself
	if caller := middleware.EmailFrom(c); caller != "" && !sameEmail(caller, req.Email) {
		return domain.ErrForbidden
	}

	result, err := h.orders.Create(c.Request().Context(), ports.CreateOrderInput{
		Email:    req.Email,
		Product:  req.Product,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}

	if result.Created {
		metrics.OrdersCreatedTotal.WithLabelValues("created").Inc()
	} else {
		metrics.OrdersCreatedTotal.WithLabelValues("existing").Inc()
	}
	return c.JSON(http.StatusOK, createOrderResponse{Created: result.Created, Order: result.Order})
}

// ListMine handles GET /purchase?email=. The email must be the caller's own.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Purchaser email (defaults to the caller)"
// @Success      200    {array}   domain.Order
// @Failure      403    {object}  errorResponse
// @Router       /purchase [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	caller, err := callerEmail(c)
	if err != nil {
		return err
	}
	email := c.QueryParam("email")
	if email == "" {
		email = caller
	}
	if !sameEmail(caller, email) {
		return domain.ErrForbidden
	}

	orders, err := h.orders.ListFor(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAll handles GET /allOrder.
//
// @Summary      List every order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  errorResponse
// @Router       /allOrder [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /purchase/:id.
//
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /purchase/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /purchase/:id.
//
// @Summary      Cancel one order
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  string  true  "Order id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /purchase/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	order, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	if err := h.orders.DeleteByID(c.Request().Context(), order.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteByEmail handles DELETE /purchase?email=: removes every order of the
// purchaser.
//
// @Summary      Cancel all orders of a purchaser
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Purchaser email"
// @Success      200    {object}  deleteOrdersResponse
// @Failure      403    {object}  errorResponse
// @Router       /purchase [delete]
func (h *OrderHandler) DeleteByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	if err := authorizeSelfOrAdmin(c, h.admins, email); err != nil {
		return err
	}

	n, err := h.orders.DeleteByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteOrdersResponse{Deleted: n})
}

// ownedOrder loads the order named by the :id param and checks the caller
// owns it or is an admin.
func (h *OrderHandler) ownedOrder(c echo.Context) (*domain.Order, error) {
	order, err := h.orders.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if err := authorizeSelfOrAdmin(c, h.admins, order.Email); err != nil {
		return nil, err
	}
	return order, nil
}
