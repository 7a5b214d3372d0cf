// Package metrics defines and registers the custom Prometheus metrics of the
// admin API. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "comedor"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts provisioned users.
// Label:
//   - role: the resolved role name (e.g. "partner", "admin")
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users provisioned, by role.",
	},
	[]string{"role"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// CredentialEmailsTotal counts credential email outcomes.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var CredentialEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_emails_total",
		Help:      "Total number of credential emails, labelled by delivery result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of emails waiting for a worker.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of credential emails pending in the mail queue.",
	},
)

// MailDeliveryDuration measures one SMTP delivery attempt.
var MailDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single SMTP delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Role cache metrics ────────────────────────────────────────────────────────

// RoleCacheLookupsTotal counts role cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var RoleCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_cache_lookups_total",
		Help:      "Total number of role cache lookups, labelled by result.",
	},
	[]string{"result"},
)
