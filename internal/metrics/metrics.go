// Package metrics exposes prometheus collectors for partner API traffic and the in-memory stores.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "polar"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeFailure = "failure"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Partner API calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of partner API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	droppedItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_items_total",
		Help:      "Transaction items omitted from a collection because their fetch failed.",
	}, []string{"kind"})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Authorization sessions awaiting a callback.",
	})
	storedCredentials = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "credentials_stored",
		Help:      "Users with a stored partner access credential.",
	})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamDuration, droppedItems, activeSessions, storedCredentials)
}

// ObserveUpstream records one partner API call.
func ObserveUpstream(operation, outcome string, started time.Time) {
	upstreamRequests.WithLabelValues(operation, outcome).Inc()
	upstreamDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// RecordDroppedItem counts a swallowed item fetch failure.
func RecordDroppedItem(kind string) {
	droppedItems.WithLabelValues(kind).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func SetStoredCredentials(n int) {
	storedCredentials.Set(float64(n))
}
