package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemdex",
			Name:      "search_requests_total",
			Help:      "Total number of searches by classified mode",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "itemdex",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchResultItems = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "itemdex",
			Name:      "search_result_items",
			Help:      "Number of items returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"mode"},
	)

	FacetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemdex",
			Name:      "facet_cache_total",
			Help:      "Facet index cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SnapshotReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemdex",
			Name:      "snapshot_reloads_total",
			Help:      "Catalog snapshot reloads",
		},
		[]string{"status"},
	)

	SnapshotItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "itemdex",
			Name:      "snapshot_items",
			Help:      "Items in the active catalog snapshot",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultItems)
	prometheus.MustRegister(FacetCacheTotal)
	prometheus.MustRegister(SnapshotReloadsTotal)
	prometheus.MustRegister(SnapshotItems)
	searchMetricsRegistered = true
}
