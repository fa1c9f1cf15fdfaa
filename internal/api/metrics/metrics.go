// Package metrics defines and registers all custom Prometheus metrics for the
// site backend. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/api/chat/history/:sessionId")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RateLimitedTotal counts requests rejected by the rate limiter, by route.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatMessagesTotal counts messages persisted to session history.
// Label:
//   - role: "user", "assistant" or "system"
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages saved to history, by role.",
	},
	[]string{"role"},
)

// HistoryStoreErrorsTotal counts failed history store operations.
// Label:
//   - op: "append", "read" or "clear"
var HistoryStoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_store_errors_total",
		Help:      "Total number of failed chat history store operations.",
	},
	[]string{"op"},
)

// CompletionDuration measures how long the completion service takes to answer,
// retries included.
var CompletionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Duration of completion service calls.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	},
)

// CompletionErrorsTotal counts completion calls that ended in failure.
var CompletionErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_errors_total",
		Help:      "Total number of failed completion service calls.",
	},
)

// CompletionRetriesTotal counts retried completion attempts.
var CompletionRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_retries_total",
		Help:      "Total number of completion attempts that were retried.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts credential operations.
// Labels:
//   - event: "register", "login" or "logout"
//   - result: "ok", "conflict" or "denied"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

// ── Archive metrics ───────────────────────────────────────────────────────────

// ArchiveQueueDepth tracks the number of messages waiting in each archive worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ArchiveQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "archive_queue_depth",
		Help:      "Current number of messages pending in each archive worker channel.",
	},
	[]string{"worker_id"},
)

// ArchiveDroppedTotal counts messages dropped because a worker channel was full.
var ArchiveDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_dropped_total",
		Help:      "Total number of messages dropped by the archive dispatcher.",
	},
)

// ArchiveErrorsTotal counts messages that could not be written to the archive.
var ArchiveErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_errors_total",
		Help:      "Total number of messages that failed to archive.",
	},
)
