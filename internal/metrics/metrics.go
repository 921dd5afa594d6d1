package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuecal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	holdsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venuecal",
			Name:      "holds_swept_total",
			Help:      "On-hold dates released by the expiry sweeper.",
		},
	)

	storeSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "venuecal",
			Name:      "store_records",
			Help:      "Records per logical store.",
		},
		[]string{"store"},
	)

	snapshotFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuecal",
			Name:      "snapshot_flushes_total",
			Help:      "Snapshot flush attempts by result.",
		},
		[]string{"result"},
	)

	embedCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuecal",
			Name:      "embed_cache_requests_total",
			Help:      "Embed payload cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, holdsSwept, storeSize, snapshotFlushes, embedCacheHits)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// AddHoldsSwept records the number of holds released by a sweep pass.
func AddHoldsSwept(n int) {
	holdsSwept.Add(float64(n))
}

// SetStoreSize records the current record count of a logical store.
func SetStoreSize(store string, n int) {
	storeSize.WithLabelValues(store).Set(float64(n))
}

// IncSnapshotFlush records a flush attempt; result is "ok" or "error".
func IncSnapshotFlush(result string) {
	snapshotFlushes.WithLabelValues(result).Inc()
}

// IncEmbedCache records a cache lookup; outcome is "hit", "miss" or "error".
func IncEmbedCache(outcome string) {
	embedCacheHits.WithLabelValues(outcome).Inc()
}
