// Package metrics defines and registers all custom Prometheus metrics for the
// to-do API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// Result label values shared by the auth counters.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" (validation) or "error" (store failure)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Total number of account registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemsCreatedTotal counts newly created to-do items.
// Label:
//   - replayed: "true" when an Idempotency-Key matched an earlier item
var ItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "items",
		Name:      "created_total",
		Help:      "Total number of to-do items created.",
	},
	[]string{"replayed"},
)

// ItemsCompletedTotal counts false→true completion transitions.
var ItemsCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "items",
		Name:      "completed_total",
		Help:      "Total number of to-do items marked completed.",
	},
)

// ItemsDeletedTotal counts removed to-do items.
var ItemsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "items",
		Name:      "deleted_total",
		Help:      "Total number of to-do items deleted.",
	},
)

// UpdateConflictsTotal counts optimistic-concurrency conflicts seen on writes.
// Label:
//   - outcome: "retried", "vanished" (row deleted meanwhile) or "fatal"
var UpdateConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "items",
		Name:      "update_conflicts_total",
		Help:      "Total number of concurrent-modification conflicts on item writes.",
	},
	[]string{"outcome"},
)
