package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

// RoleResolver looks up whether an identity holds the admin role. A missing
// identity must resolve to false, not to an error.
type RoleResolver interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin must run after Auth. The role is re-resolved from the identity
// store on every request; tokens never carry it.
func RequireAdmin(roles RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := EmailFrom(c)
			if email == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
			}

			isAdmin, err := roles.IsAdmin(c.Request().Context(), email)
			if err != nil {
				return err
			}
			if !isAdmin {
				metrics.AuthRejectionsTotal.WithLabelValues("not_admin").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
