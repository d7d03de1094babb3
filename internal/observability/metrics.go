package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactRetries counts optimistic transaction retries by entity kind.
	TransactRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_store_transact_retries_total",
		Help: "Total number of optimistic transaction retries by entity kind",
	}, []string{"entity"})

	// TransactFailures counts transactions abandoned after the retry budget.
	TransactFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_store_transact_failures_total",
		Help: "Total number of transactions that exhausted their retry budget",
	}, []string{"entity"})

	// TransactLatency records end-to-end transaction latency by entity kind.
	TransactLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kindred_store_transact_latency_seconds",
		Help:    "Optimistic transaction latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	// NotificationsDropped counts advisory notifications lost at the
	// dispatcher boundary.
	NotificationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_notifications_dropped_total",
		Help: "Total number of notifications dropped by failure reason",
	}, []string{"reason"})

	// NotificationsDelivered counts inbox entries created by kind.
	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_notifications_delivered_total",
		Help: "Total number of notifications delivered by kind",
	}, []string{"kind"})

	// MilestonesAwarded counts badge and threshold unlocks by category.
	MilestonesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_milestones_awarded_total",
		Help: "Total number of milestones awarded by category",
	}, []string{"category"})

	// TempBansCleared counts lazy-expiry clears that actually wrote.
	TempBansCleared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindred_temp_bans_cleared_total",
		Help: "Total number of expired temporary bans cleared",
	})
)
