package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

const defaultProcessorTimeout = 10 * time.Second

// maxAmountMinor caps a single intent at 999,999.99 in major units.
const maxAmountMinor = 99_999_999

type PaymentService struct {
	payments  ports.PaymentRepository
	orders    ports.OrderService
	processor ports.PaymentProcessor
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	orders ports.OrderService,
	processor ports.PaymentProcessor,
	timeout time.Duration,
	logger zerolog.Logger,
) *PaymentService {
	if timeout <= 0 {
		timeout = defaultProcessorTimeout
	}
	return &PaymentService{
		payments:  payments,
		orders:    orders,
		processor: processor,
		timeout:   timeout,
		logger:    logger,
	}
}

// CreateIntent validates the amount, asks the processor for a payment intent
// and returns its client secret. The processor's intent id is kept in the
// intent audit collection.
func (s *PaymentService) CreateIntent(ctx context.Context, in ports.CreateIntentInput) (string, error) {
	amountMinor, err := toMinorUnits(in.Amount)
	if err != nil {
		return "", err
	}
	currency := normalizeCurrency(in.Currency)

	metadata := map[string]string{"email": in.Email}
	if in.OrderID != "" {
		metadata["order_id"] = in.OrderID
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intentID, secret, err := s.processor.CreateIntent(callCtx, amountMinor, currency, metadata)
	if err != nil {
		s.logger.Error().Err(err).Int64("amount_minor", amountMinor).Msg("payment intent request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	audit := &domain.PaymentIntent{
		IntentID:    intentID,
		Email:       in.Email,
		AmountMinor: amountMinor,
		Currency:    currency,
		OrderID:     in.OrderID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.payments.InsertIntent(ctx, audit); err != nil {
		// non-fatal: the intent already exists at the processor
		s.logger.Warn().Err(err).Str("intent_id", intentID).Msg("failed to record payment intent")
	}

	s.logger.Info().Str("intent_id", intentID).Str("email", in.Email).Int64("amount_minor", amountMinor).Msg("payment intent created")
	return secret, nil
}

// Confirm records the payment for an order and marks the order paid.
//
// The two writes are not in one transaction. The payment record is written
// first and carries the order id, so a crash between the writes leaves a
// record that a retry of Confirm or the reconciliation sweep can complete.
func (s *PaymentService) Confirm(ctx context.Context, in ports.ConfirmPaymentInput) (*domain.Order, error) {
	if in.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", domain.ErrInvalidAmount)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		if order.PaidWith(in.TransactionID) {
			return order, nil
		}
		return nil, domain.ErrOrderAlreadyPaid
	}

	payment := &domain.Payment{
		OrderID:       order.ID,
		TransactionID: in.TransactionID,
		Amount:        in.Amount,
		Currency:      normalizeCurrency(in.Currency),
		Email:         order.Email,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		if !errors.Is(err, domain.ErrDuplicatePayment) {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		existing, findErr := s.payments.FindByOrderID(ctx, order.ID)
		if findErr != nil {
			return nil, fmt.Errorf("record payment: %w", findErr)
		}
		if existing.TransactionID != in.TransactionID {
			return nil, domain.ErrOrderAlreadyPaid
		}
		s.logger.Warn().Str("order_id", order.ID).Str("transaction_id", in.TransactionID).Msg("resuming confirmation of recorded payment")
	}

	updated, err := s.orders.MarkPaid(ctx, order.ID, in.TransactionID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("payment recorded but order not marked paid")
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Str("transaction_id", in.TransactionID).Msg("payment confirmed")
	return updated, nil
}

// toMinorUnits converts a positive, finite major-unit amount to minor units.
// Fractions of a cent are rejected rather than rounded away.
func toMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	minor := math.Round(amount * 100)
	if math.Abs(minor-amount*100) > 1e-6 {
		return 0, fmt.Errorf("%w: more than two decimal places", domain.ErrInvalidAmount)
	}
	if minor < 1 || minor > maxAmountMinor {
		return 0, domain.ErrInvalidAmount
	}
	return int64(minor), nil
}

func normalizeCurrency(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return domain.DefaultCurrency
	}
	return c
}
