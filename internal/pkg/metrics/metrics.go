// Package metrics defines and registers the custom Prometheus metrics of the
// storefront API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Access control ────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests rejected by the access control gate.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token", "revoked_token", "not_admin"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the access control gate.",
	},
	[]string{"reason"},
)

// ── Orders ────────────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts order create requests.
// Label:
//   - result: "created" or "existing" (idempotent replay)
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of order create requests, by result.",
	},
	[]string{"result"},
)

// ── Payments ──────────────────────────────────────────────────────────────────

// PaymentIntentsTotal counts payment intent requests.
// Label:
//   - result: "ok", "invalid_amount", "upstream_error"
var PaymentIntentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Total number of payment intent requests, by result.",
	},
	[]string{"result"},
)

// PaymentsConfirmedTotal counts payment confirmations that left the order paid.
var PaymentsConfirmedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_confirmed_total",
		Help:      "Total number of payment confirmations applied to orders.",
	},
)

// ProcessorDuration measures round trips to the payment processor.
var ProcessorDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "processor_request_duration_seconds",
		Help:      "Duration of payment processor requests.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Reconciliation ────────────────────────────────────────────────────────────

// ReconcileTotal counts reconcile task outcomes.
// Label:
//   - result: "repaired" or "error"
var ReconcileTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_tasks_total",
		Help:      "Total number of reconcile tasks applied, by result.",
	},
	[]string{"result"},
)

// ReconcileQueueDepth tracks the number of tasks waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ReconcileQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_queue_depth",
		Help:      "Current number of reconcile tasks pending in each worker channel.",
	},
	[]string{"worker_id"},
)
