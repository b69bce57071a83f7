// Package metrics exposes Prometheus counters for the stats engine.
// Metrics are served at /metrics in Prometheus text format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewsProcessed counts review events by kind ("create" or "edit").
	ReviewsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lpstats_reviews_processed_total",
			Help: "Review events processed by the stats engine",
		},
		[]string{"kind"},
	)

	// BadgesAwarded counts badge awards by category.
	BadgesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lpstats_badges_awarded_total",
			Help: "Badges awarded, labeled by badge category",
		},
		[]string{"category"},
	)

	// FanoutFailures counts per-reviewer failures during winner
	// declarations. These are logged and skipped, not fatal.
	FanoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lpstats_winner_fanout_failures_total",
			Help: "Per-reviewer failures during winner declaration fan-out",
		},
	)

	// StoreErrors counts failed stats-store writes.
	StoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lpstats_store_errors_total",
			Help: "Failed writes to the stats store",
		},
	)
)
