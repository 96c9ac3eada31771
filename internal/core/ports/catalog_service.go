package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

// CatalogService exposes products and reviews without further invariants.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	ListReviews(ctx context.Context) ([]*domain.Review, error)
	CreateReview(ctx context.Context, r *domain.Review) error
	DeleteReview(ctx context.Context, id string) error
}
