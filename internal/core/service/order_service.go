package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// Create places an order unless one already exists for the same purchaser and
// product, in which case the existing order is returned with Created=false.
// The repository's unique (email, product) index settles concurrent creates.
func (s *OrderService) Create(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	email := normalizeEmail(input.Email)
	product := strings.TrimSpace(input.Product)

	existing, err := s.repo.FindByEmailAndProduct(ctx, email, product)
	if err == nil {
		s.logger.Info().Str("email", email).Str("product", product).Str("order_id", existing.ID).Msg("idempotent replay")
		return &ports.CreateOrderResult{Created: false, Order: existing}, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, fmt.Errorf("create order: %w", err)
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	order := &domain.Order{
		Email:     email,
		Product:   product,
		Quantity:  quantity,
		Price:     input.Price,
		Paid:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			// lost the race to a concurrent create
			winner, findErr := s.repo.FindByEmailAndProduct(ctx, email, product)
			if findErr != nil {
				return nil, fmt.Errorf("create order: %w", findErr)
			}
			return &ports.CreateOrderResult{Created: false, Order: winner}, nil
		}
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID).Str("email", email).Str("product", product).Msg("order created")
	return &ports.CreateOrderResult{Created: true, Order: order}, nil
}

func (s *OrderService) ListFor(ctx context.Context, email string) ([]*domain.Order, error) {
	return s.repo.ListByEmail(ctx, normalizeEmail(email))
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *OrderService) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	n, err := s.repo.DeleteByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return 0, fmt.Errorf("delete orders: %w", err)
	}
	s.logger.Info().Str("email", email).Int64("deleted", n).Msg("orders deleted")
	return n, nil
}

func (s *OrderService) DeleteByID(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("order_id", id).Msg("order deleted")
	return nil
}

// MarkPaid moves an order to PAID. Replaying the same transaction returns the
// paid order unchanged; a different transaction is rejected.
func (s *OrderService) MarkPaid(ctx context.Context, id, transactionID string) (*domain.Order, error) {
	order, err := s.repo.MarkPaid(ctx, id, transactionID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	// Nothing unpaid matched: either the order is gone or it is already paid.
	current, findErr := s.repo.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	if current.PaidWith(transactionID) {
		return current, nil
	}
	if !current.Paid {
		return nil, fmt.Errorf("mark paid: order %s was not updated", id)
	}
	return nil, domain.ErrOrderAlreadyPaid
}
