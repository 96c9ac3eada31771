package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

// ContextEmail is the echo context key holding the authenticated email.
const ContextEmail = "email"

// ContextToken is the echo context key holding the raw bearer token.
const ContextToken = "token"

// Auth requires a valid bearer token. A missing header is 401; a header that
// does not carry a valid, unexpired, unrevoked token is 403.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
			}
			if err := authenticate(c, tokens, authHeader); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a presented
// token that fails verification.
func OptionalAuth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}
			if err := authenticate(c, tokens, authHeader); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, tokens ports.TokenService, authHeader string) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}
	token := strings.TrimSpace(parts[1])

	email, err := tokens.Verify(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.AuthRejectionsTotal.WithLabelValues("expired_token").Inc()
		case errors.Is(err, domain.ErrTokenRevoked):
			metrics.AuthRejectionsTotal.WithLabelValues("revoked_token").Inc()
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
		default:
			// registry failure: let the error handler log it
			return err
		}
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}

	c.Set(ContextEmail, email)
	c.Set(ContextToken, token)
	return nil
}

// EmailFrom returns the authenticated email, or "" for anonymous requests.
func EmailFrom(c echo.Context) string {
	email, _ := c.Get(ContextEmail).(string)
	return email
}
