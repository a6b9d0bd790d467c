// Package metrics provides Prometheus metrics for the results explorer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsLoaded counts document loads by source kind and outcome.
	DocumentsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blutable",
			Name:      "documents_loaded_total",
			Help:      "Total number of result document loads",
		},
		[]string{"source", "status"},
	)

	// LoadDuration measures how long fetching and parsing a document takes.
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blutable",
			Name:      "load_duration_seconds",
			Help:      "Duration of result document loads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ViewsComputed counts derived view snapshots, split by memo cache outcome.
	ViewsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blutable",
			Name:      "views_computed_total",
			Help:      "Total number of view snapshots served",
		},
		[]string{"mode", "cache"},
	)

	LoadJobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "blutable",
			Name:      "load_jobs_in_flight",
			Help:      "Number of URL load jobs currently running",
		},
	)
)
