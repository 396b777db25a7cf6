// Package metrics defines and registers all custom Prometheus metrics for
// socialnet. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// ops listener exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "socialnet"

// Result label values shared by the counters below.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: ok, invalid (validation), rejected (username taken), error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: ok, rejected (bad credentials), error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostsCreatedTotal counts posts appended to the post log.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// FollowActionsTotal counts follow graph mutations.
// Labels:
//   - action: follow or unfollow
//   - result: ok, rejected, error
var FollowActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_actions_total",
		Help:      "Total number of follow and unfollow actions, by result.",
	},
	[]string{"action", "result"},
)

// ── Feed metrics ──────────────────────────────────────────────────────────────

// FeedCompositionsTotal counts feed requests.
// Label:
//   - cache: hit, miss, or disabled
var FeedCompositionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_compositions_total",
		Help:      "Total number of feed requests, by cache outcome.",
	},
	[]string{"cache"},
)

// FeedCompositionDuration measures how long composing a feed from storage takes.
var FeedCompositionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_composition_duration_seconds",
		Help:      "Duration of feed composition from storage reads to ranked result.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StorageErrorsTotal counts storage failures surfaced to services.
// Labels:
//   - store: users, posts, follows, cache
//   - op: the port method that failed (e.g. "append", "follow")
var StorageErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of storage operation failures, by store and operation.",
	},
	[]string{"store", "op"},
)
