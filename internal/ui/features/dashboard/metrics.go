package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "penguineda",
		Subsystem: "dashboard",
		Name:      "renders_total",
		Help:      "Dashboard render passes by trigger (page, refresh, update).",
	}, []string{"trigger"})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "penguineda",
		Subsystem: "dashboard",
		Name:      "build_duration_seconds",
		Help:      "Time spent running every display adapter for one render pass.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)
