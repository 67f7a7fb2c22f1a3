package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "penguineda",
		Subsystem: "filter",
		Name:      "recomputes_total",
		Help:      "Filtered dataset recomputations after a selection change",
	})

	filterCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "penguineda",
		Subsystem: "filter",
		Name:      "cache_hits_total",
		Help:      "Reads served from a fresh filtered dataset",
	})

	filterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "penguineda",
		Subsystem: "filter",
		Name:      "recompute_duration_seconds",
		Help:      "Time spent recomputing the filtered dataset",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "penguineda",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Dashboard sessions currently held in memory",
	})

	evictedSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "penguineda",
		Subsystem: "sessions",
		Name:      "evicted_total",
		Help:      "Sessions dropped to stay within the session limit",
	})
)
