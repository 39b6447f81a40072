// Package metrics holds the Prometheus collectors shared by tracker components.
//
// Usage:
//
//	metrics.StorageFailures.WithLabelValues("watchpicker_watched", "write").Inc()
//	metrics.SyncEvents.WithLabelValues("applied").Inc()
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageFailures counts durable storage operations that were swallowed, by key and operation.
	StorageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpicker_storage_failures_total",
			Help: "Durable storage reads or writes that failed and were contained",
		},
		[]string{"key", "op"},
	)

	// CorruptRecords counts collections reset because their stored value did not parse.
	CorruptRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpicker_corrupt_records_total",
			Help: "Stored or broadcast collections discarded as corrupt",
		},
		[]string{"key", "source"},
	)

	// SyncEvents counts cross-context storage notifications by outcome.
	SyncEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpicker_sync_events_total",
			Help: "Storage change notifications received from other contexts",
		},
		[]string{"outcome"},
	)

	// UpstreamRequests counts metadata API calls by endpoint and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpicker_upstream_requests_total",
			Help: "Metadata API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
)
