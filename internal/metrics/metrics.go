package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Retry outcomes recorded per attempt.
const (
	OutcomeSuccess      = "success"
	OutcomeRetry        = "retry"
	OutcomeExhausted    = "exhausted"
	OutcomeNonRetryable = "non_retryable"
	OutcomeCancelled    = "cancelled"
)

var (
	// RetryAttempts tracks attempt outcomes per operation
	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_retry_attempts_total",
			Help: "Total number of attempt outcomes seen by the retry executor",
		},
		[]string{"operation", "outcome"},
	)

	// RetryBackoff tracks scheduled backoff delays
	RetryBackoff = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_retry_backoff_seconds",
			Help:    "Backoff delay scheduled before a retry, in seconds",
			Buckets: prometheus.ExponentialBuckets(0.125, 2, 10),
		},
		[]string{"operation"},
	)

	// ListFetches tracks upstream list fetches per resource
	ListFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_list_fetches_total",
			Help: "Total number of upstream list fetches",
		},
		[]string{"resource", "status"},
	)

	// ListFetchLatency tracks upstream list fetch latency including retries
	ListFetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_list_fetch_latency_seconds",
			Help:    "Upstream list fetch latency in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// APIRequests tracks console API requests per route
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_api_requests_total",
			Help: "Total number of console API requests",
		},
		[]string{"route", "code"},
	)
)
