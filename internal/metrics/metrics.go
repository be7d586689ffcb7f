// Package metrics exposes Prometheus metrics for the quoting and validation
// paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesComputed counts packing plans produced by the quote API.
	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palletwise_quotes_total",
			Help: "Total packing plans computed, by outcome",
		},
		[]string{"outcome"},
	)

	// PlanDuration observes how long one plan computation takes.
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "palletwise_plan_duration_seconds",
			Help:    "Time taken to compute one packing plan",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DocumentsProcessed counts watcher documents by outcome.
	DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palletwise_documents_processed_total",
			Help: "BOL documents handled by the watcher, by outcome",
		},
		[]string{"outcome"},
	)

	// RecordsWritten counts validation record writes by sink.
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palletwise_validation_records_written_total",
			Help: "Validation records persisted, by sink",
		},
		[]string{"sink"},
	)

	// VarianceAlerts counts large pallet-variance alerts raised.
	VarianceAlerts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "palletwise_variance_alerts_total",
			Help: "Alerts raised for pallet variance at or above the threshold",
		},
	)
)
