package ports

import (
	"context"

	"github.com/teatree/storefront-api/internal/core/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
}

type ReviewRepository interface {
	List(ctx context.Context) ([]*domain.Review, error)
	Insert(ctx context.Context, r *domain.Review) error
	DeleteByID(ctx context.Context, id string) error
}
