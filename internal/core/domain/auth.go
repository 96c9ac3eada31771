package domain

import "errors"

var (
	// ErrUnauthorized means no credential was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means a credential was presented but does not grant access.
	ErrForbidden = errors.New("access forbidden")

	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)
