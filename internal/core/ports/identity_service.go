package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// UpsertIdentityResult is returned after an identity upsert.
type UpsertIdentityResult struct {
	Created bool
	Token   string
}

// IdentityService defines use-case operations for identities.
type IdentityService interface {
	Upsert(ctx context.Context, email string, profile map[string]any) (*UpsertIdentityResult, error)
	Get(ctx context.Context, email string) (*domain.Identity, error)
	List(ctx context.Context) ([]*domain.Identity, error)
	// IsAdmin reports whether the identity exists and has the admin role.
	IsAdmin(ctx context.Context, email string) (bool, error)
	PromoteToAdmin(ctx context.Context, email string) error
}
