package service

import (
	"context"
	"testing"
	"time"

	"github.com/teatree/storefront-api/internal/core/domain"
)

type stubReviewRepo struct {
	inserted []*domain.Review
}

func (r *stubReviewRepo) List(context.Context) ([]*domain.Review, error) { return r.inserted, nil }

func (r *stubReviewRepo) Insert(_ context.Context, rv *domain.Review) error {
	r.inserted = append(r.inserted, rv)
	return nil
}

func (r *stubReviewRepo) DeleteByID(context.Context, string) error { return nil }

func TestCatalogService_CreateReview_StampsCreation(t *testing.T) {
	reviews := &stubReviewRepo{}
	svc := NewCatalogService(nil, reviews)

	before := time.Now().UTC()
	r := &domain.Review{Name: "Ann", Rating: 5, Comment: "Lovely"}
	if err := svc.CreateReview(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.CreatedAt.Before(before) {
		t.Fatalf("expected creation time to be stamped, got %v", r.CreatedAt)
	}

	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r2 := &domain.Review{Name: "Bo", Rating: 4, Comment: "Fine", CreatedAt: fixed}
	_ = svc.CreateReview(context.Background(), r2)
	if !r2.CreatedAt.Equal(fixed) {
		t.Fatalf("explicit creation time must be kept, got %v", r2.CreatedAt)
	}
}
