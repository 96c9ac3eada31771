package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

const (
	defaultSweepInterval = time.Minute
	sweepBatchSize       = 100
)

// TaskQueue abstracts the worker pool that applies reconcile tasks.
type TaskQueue interface {
	Enqueue(task ports.ReconcileTask)
}

type ReconcileService struct {
	payments ports.PaymentRepository
	orders   ports.OrderService
	queue    TaskQueue
	log      zerolog.Logger
}

// NewReconcileService returns a ReconcileService. The queue is attached with
// SetQueue because the dispatcher itself calls back into Apply.
func NewReconcileService(payments ports.PaymentRepository, orders ports.OrderService, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{payments: payments, orders: orders, log: log}
}

func (s *ReconcileService) SetQueue(q TaskQueue) {
	s.queue = q
}

// Sweep finds payment records whose order is still unpaid and hands them to
// the queue. It returns the number of tasks enqueued.
func (s *ReconcileService) Sweep(ctx context.Context) (int, error) {
	orphans, err := s.payments.ListUnreconciled(ctx, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	for _, p := range orphans {
		task := ports.ReconcileTask{OrderID: p.OrderID, TransactionID: p.TransactionID}
		if s.queue == nil {
			if err := s.Apply(ctx, task); err != nil {
				s.log.Error().Err(err).Str("order_id", p.OrderID).Msg("reconcile failed")
			}
			continue
		}
		s.queue.Enqueue(task)
	}

	if len(orphans) > 0 {
		s.log.Info().Int("count", len(orphans)).Msg("unreconciled payments found")
	}
	return len(orphans), nil
}

// Apply re-applies the paid transition recorded by a payment.
func (s *ReconcileService) Apply(ctx context.Context, task ports.ReconcileTask) error {
	if _, err := s.orders.MarkPaid(ctx, task.OrderID, task.TransactionID); err != nil {
		metrics.ReconcileTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reconcile order %s: %w", task.OrderID, err)
	}
	metrics.ReconcileTotal.WithLabelValues("repaired").Inc()
	s.log.Info().Str("order_id", task.OrderID).Str("transaction_id", task.TransactionID).Msg("order reconciled")
	return nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *ReconcileService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error().Err(err).Msg("reconciliation sweep failed")
			}
		}
	}
}
