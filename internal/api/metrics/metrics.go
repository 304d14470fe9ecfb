// Package metrics defines and registers the custom Prometheus metrics for the
// user-management API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "task4"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", or "blocked"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts email-verification attempts.
// Label:
//   - result: "verified" or "invalid"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of email verification attempts, by result.",
	},
	[]string{"result"},
)

// EmailsTotal counts verification-email deliveries.
// Label:
//   - result: "sent" or "error"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_emails_total",
		Help:      "Total number of verification email deliveries, by result.",
	},
	[]string{"result"},
)

// AdminActionsTotal counts administration operations that completed.
// Label:
//   - action: "block", "unblock", "delete", or "delete_unverified"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of completed administration operations, by action.",
	},
	[]string{"action"},
)
