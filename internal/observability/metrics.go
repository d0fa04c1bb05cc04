// Package observability centralizes Prometheus instrumentation for the
// refresh pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "usagedeck_refresh_total",
		Help: "Completed refresh passes",
	})

	RefreshSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "usagedeck_refresh_skipped_total",
		Help: "Refresh requests skipped because one was already in flight",
	})

	ProviderFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "usagedeck_provider_fetch_errors_total",
		Help: "Provider fetch failures grouped by provider",
	}, []string{"provider"})

	ProviderFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "usagedeck_provider_fetch_seconds",
		Help:    "Provider fetch latency distributions",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)
