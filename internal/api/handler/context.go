package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/domain"
)

// AdminChecker resolves the admin role of an identity.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// callerEmail returns the email attached by the Auth middleware. Handlers
// never take the caller's identity from the request body.
func callerEmail(c echo.Context) (string, error) {
	email := middleware.EmailFrom(c)
	if email == "" {
		return "", domain.ErrUnauthorized
	}
	return email, nil
}

// authorizeSelfOrAdmin admits the caller when it is the owner of the resource
// or holds the admin role.
func authorizeSelfOrAdmin(c echo.Context, admins AdminChecker, owner string) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}
	if sameEmail(email, owner) {
		return nil
	}

	isAdmin, err := admins.IsAdmin(c.Request().Context(), email)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
