package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRecords counts records handled by category sync, by outcome
	// ("created", "updated", "unchanged", "duplicate").
	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_sync_records_total",
			Help: "Records processed by category sync",
		},
		[]string{"category", "outcome"},
	)

	// SyncErrors counts aborted category syncs.
	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_sync_errors_total",
			Help: "Category syncs aborted by a fetch or store error",
		},
		[]string{"category"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tour_sync_duration_seconds",
			Help:    "Duration of a full category sync",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"category"},
	)

	// EnrichRecords counts enrichment attempts by pass and outcome
	// ("updated", "failed", "no_match").
	EnrichRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_enrich_records_total",
			Help: "Records attempted by enrichment passes",
		},
		[]string{"pass", "outcome"},
	)

	OrphansDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_orphans_deleted_total",
			Help: "Orphaned records removed after operator confirmation",
		},
		[]string{"category"},
	)

	// UpstreamRequests counts TourAPI calls by service, operation and status.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourapi_requests_total",
			Help: "Requests sent to the TourAPI catalog",
		},
		[]string{"service", "operation", "status"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tourapi_circuit_breaker_state",
			Help: "TourAPI circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)
