package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// IdentityRepository defines persistence for identities keyed by email.
type IdentityRepository interface {
	// Upsert sets the given profile fields on the identity, creating it with the
	// customer role when absent. It reports whether a new identity was created.
	Upsert(ctx context.Context, email string, profile map[string]any) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	List(ctx context.Context) ([]*domain.Identity, error)
	SetRole(ctx context.Context, email, role string) error
}
