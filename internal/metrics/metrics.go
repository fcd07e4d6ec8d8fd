// Package metrics exposes Prometheus instrumentation for the classification
// engine and the GitHub client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReposProcessed tracks repositories classified successfully.
	ReposProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_repos_processed_total",
			Help: "Total number of repositories classified successfully",
		},
	)

	// ReposFailed tracks repositories that failed terminally.
	ReposFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_repos_failed_total",
			Help: "Total number of repositories that failed classification",
		},
	)

	// ReposSkipped tracks repositories skipped because a prior run already
	// settled them.
	ReposSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_repos_skipped_total",
			Help: "Total number of repositories skipped on resume",
		},
	)

	// BatchesProcessed tracks checkpointed batches.
	BatchesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_batches_processed_total",
			Help: "Total number of batches processed and checkpointed",
		},
	)

	// CheckpointSaves tracks checkpoint persistence operations.
	CheckpointSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_checkpoint_saves_total",
			Help: "Total number of checkpoint saves",
		},
	)

	// APICalls tracks GitHub API requests by operation.
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orglens_api_calls_total",
			Help: "Total number of GitHub API requests",
		},
		[]string{"operation", "status"},
	)

	// RateLimitWaits tracks how often the engine stalled on quota exhaustion.
	RateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_rate_limit_waits_total",
			Help: "Total number of rate-limit waits",
		},
	)

	// RateLimitWaitSeconds accumulates time spent waiting for quota resets.
	RateLimitWaitSeconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_rate_limit_wait_seconds_total",
			Help: "Total seconds spent waiting for rate-limit resets",
		},
	)

	// RetryAttempts tracks retried operations by outcome.
	RetryAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orglens_retry_attempts_total",
			Help: "Total number of retry attempts after failures",
		},
	)
)
