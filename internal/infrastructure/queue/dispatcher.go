package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// TaskApplier applies a single reconcile task.
type TaskApplier interface {
	Apply(ctx context.Context, task ports.ReconcileTask) error
}

// Dispatcher routes reconcile tasks to a fixed set of workers using
// consistent hashing on the order id, so one order is never repaired by two
// workers at once.
type Dispatcher struct {
	workers []chan ports.ReconcileTask
	applier TaskApplier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, applier TaskApplier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReconcileTask, numWorkers),
		applier: applier,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReconcileTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a task to the worker responsible for its order. A full
// worker channel drops the task; the next sweep finds the order again.
func (d *Dispatcher) Enqueue(task ports.ReconcileTask) {
	idx := d.shardIndex(task.OrderID)
	select {
	case d.workers[idx] <- task:
		metrics.ReconcileQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("order_id", task.OrderID).Int("worker_id", idx).Msg("reconcile queue full, task dropped")
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReconcileTask) {
	depth := metrics.ReconcileQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.applier.Apply(ctx, task); err != nil {
				d.log.Error().Err(err).
					Str("order_id", task.OrderID).
					Int("worker_id", id).
					Msg("reconcile task failed")
			}
		}
	}
}
