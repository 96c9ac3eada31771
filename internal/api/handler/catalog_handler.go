package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

// CatalogHandler serves products and reviews.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.Product
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
//
// @Summary      Get one product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products.
//
// @Summary      Add a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product := &domain.Product{
		Name:              req.Name,
		Description:       req.Description,
		Image:             req.Image,
		Price:             req.Price,
		MinQuantity:       req.MinQuantity,
		AvailableQuantity: req.AvailableQuantity,
	}
	if err := h.catalog.CreateProduct(c.Request().Context(), product); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ListReviews handles GET /reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}  domain.Review
// @Router       /reviews [get]
func (h *CatalogHandler) ListReviews(c echo.Context) error {
	reviews, err := h.catalog.ListReviews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// CreateReview handles POST /reviews.
//
// @Summary      Add a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      422   {object}  errorResponse
// @Router       /reviews [post]
func (h *CatalogHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review := &domain.Review{
		Name:    req.Name,
		Email:   req.Email,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.catalog.CreateReview(c.Request().Context(), review); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// DeleteReview handles DELETE /reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Param        id   path  string  true  "Review id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /reviews/{id} [delete]
func (h *CatalogHandler) DeleteReview(c echo.Context) error {
	if err := h.catalog.DeleteReview(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
