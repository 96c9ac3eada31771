package ports

import (
	"context"
	"time"
)

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(email string) (string, error)
	// Verify returns the email embedded in a valid, unexpired token.
	Verify(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// RevocationStore is the server-side session registry used to revoke tokens
// before their natural expiry.
type RevocationStore interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
