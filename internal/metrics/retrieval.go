package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Name:      "retrieval_cache_total",
			Help:      "Merged-result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalStrategyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Name:      "retrieval_strategy_failures_total",
			Help:      "Retrieval strategy calls that failed or timed out",
		},
		[]string{"strategy"},
	)

	RetrievalCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "quarry",
			Name:      "retrieval_merged_candidates",
			Help:      "Candidate count after merge and dedupe",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalCacheTotal)
	prometheus.MustRegister(RetrievalStrategyFailures)
	prometheus.MustRegister(RetrievalCandidates)
	retrievalMetricsRegistered = true
}
