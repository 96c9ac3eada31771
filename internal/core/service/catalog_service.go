package service

import (
	"context"
	"time"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

type CatalogService struct {
	products ports.ProductRepository
	reviews  ports.ReviewRepository
}

func NewCatalogService(products ports.ProductRepository, reviews ports.ReviewRepository) *CatalogService {
	return &CatalogService{products: products, reviews: reviews}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.products.Insert(ctx, p)
}

func (s *CatalogService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	return s.reviews.List(ctx)
}

func (s *CatalogService) CreateReview(ctx context.Context, r *domain.Review) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return s.reviews.Insert(ctx, r)
}

func (s *CatalogService) DeleteReview(ctx context.Context, id string) error {
	return s.reviews.DeleteByID(ctx, id)
}
