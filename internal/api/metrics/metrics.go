// Package metrics defines all custom Prometheus metrics for the exchange
// bot. It is the single source of truth for metric names, labels, and help
// strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exchange_bot"

// ApplicationsCreatedTotal counts applications created, by type.
var ApplicationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of applications created, by application type.",
	},
	[]string{"type"},
)

// ApplicationsResolvedTotal counts terminal resolutions, by type and outcome.
var ApplicationsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_resolved_total",
		Help:      "Total number of applications resolved to a terminal status.",
	},
	[]string{"type", "status"},
)

// VerificationFailuresTotal counts deposit verification attempts that did not
// clear every gate.
// Label:
//   - reason: "gateway", "wallet_mismatch", "wrong_token", "unconfirmed"
var VerificationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_failures_total",
		Help:      "Total number of deposit verification checks that failed, by reason.",
	},
	[]string{"reason"},
)

// DuplicateDepositsTotal counts rejected resubmissions of an already-used hash.
var DuplicateDepositsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_deposits_total",
		Help:      "Total number of deposit submissions rejected for hash reuse.",
	},
)

// PermissionDeniedTotal counts privileged actions refused by the role gate.
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of actions denied by permission checks.",
	},
	[]string{"action"},
)

// NotificationRefreshesTotal counts summary-message refreshes, by result.
// Label:
//   - result: "created", "edited", "cleared", "error"
var NotificationRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_refreshes_total",
		Help:      "Total number of reviewer summary refreshes, by result.",
	},
	[]string{"result"},
)

// PendingDeposits tracks the current pending-deposit queue depth as observed
// by the last notification refresh.
var PendingDeposits = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_deposits",
		Help:      "Pending deposit applications awaiting review.",
	},
)
