package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationsTotal counts storage operations by name and outcome.
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_storage_operations_total",
			Help: "Total number of file storage operations",
		},
		[]string{"operation", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_storage_operation_duration_seconds",
			Help:    "Duration of file storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	storedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_storage_stored_bytes_total",
			Help: "Total number of decoded bytes written to storage",
		},
	)

	contentCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_storage_cache_lookups_total",
			Help: "Content cache lookups by result",
		},
		[]string{"result"},
	)
)
