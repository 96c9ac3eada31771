package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

// IdentityHandler serves the /user and /admin routes.
type IdentityHandler struct {
	identities ports.IdentityService
	tokens     ports.TokenService
}

func NewIdentityHandler(identities ports.IdentityService, tokens ports.TokenService) *IdentityHandler {
	return &IdentityHandler{identities: identities, tokens: tokens}
}

// List handles GET /user.
//
// @Summary      List identities
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Identity
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /user [get]
func (h *IdentityHandler) List(c echo.Context) error {
	identities, err := h.identities.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identities)
}

// Get handles GET /user/:email. Callers may read their own identity; admins
// may read any.
//
// @Summary      Get one identity
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Identity email"
// @Success      200    {object}  domain.Identity
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /user/{email} [get]
func (h *IdentityHandler) Get(c echo.Context) error {
	email := c.Param("email")
	if err := authorizeSelfOrAdmin(c, h.identities, email); err != nil {
		return err
	}

	identity, err := h.identities.Get(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// AdminStatus handles GET /admin/:email. An unknown email is not an admin.
//
// @Summary      Check admin role
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "Identity email"
// @Success      200    {object}  adminStatusResponse
// @Router       /admin/{email} [get]
func (h *IdentityHandler) AdminStatus(c echo.Context) error {
	isAdmin, err := h.identities.IsAdmin(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminStatusResponse{Admin: isAdmin})
}

// Promote handles PUT /user/admin/:email.
//
// @Summary      Grant the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Identity email"
// @Success      200    {object}  messageResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /user/admin/{email} [put]
func (h *IdentityHandler) Promote(c echo.Context) error {
	if err := h.identities.PromoteToAdmin(c.Request().Context(), c.Param("email")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "identity promoted to admin"})
}

// Upsert handles PUT /user/:email: creates or updates the identity and returns
// a fresh session token.
//
// @Summary      Upsert identity and issue a session token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        email  path      string          true  "Identity email"
// @Param        body   body      map[string]any  false "Profile fields"
// @Success      200    {object}  upsertIdentityResponse
// @Failure      400    {object}  errorResponse
// @Router       /user/{email} [put]
func (h *IdentityHandler) Upsert(c echo.Context) error {
	profile := map[string]any{}
	if err := bodyBinder.BindBody(c, &profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.identities.Upsert(c.Request().Context(), c.Param("email"), profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upsertIdentityResponse{Created: result.Created, Token: result.Token})
}

// Logout handles DELETE /session: revokes the presented token.
//
// @Summary      Revoke the current session token
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /session [delete]
func (h *IdentityHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return domain.ErrUnauthorized
	}
	if err := h.tokens.Revoke(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
