package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and index build metrics. Registered explicitly via
// RegisterSearchMetrics from the composition root (no init()).
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storesearch",
			Name:      "search_duration_seconds",
			Help:      "Search operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "searches_total",
			Help:      "Total number of search operations",
		},
		[]string{"operation", "status"},
	)

	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "index_builds_total",
			Help:      "Total number of index builds",
		},
		[]string{"status"},
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storesearch",
			Name:      "index_build_duration_seconds",
			Help:      "Index build duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storesearch",
			Name:      "index_documents",
			Help:      "Number of documents in the current index snapshot",
		},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "catalog_cache_total",
			Help:      "Catalog response cache lookups by result",
		},
		[]string{"result"},
	)
)

// RegisterSearchMetrics registers search and build metrics with the default registry.
func RegisterSearchMetrics() {
	prometheus.MustRegister(
		SearchDuration,
		SearchesTotal,
		IndexBuildsTotal,
		IndexBuildDuration,
		IndexDocuments,
		CatalogCacheTotal,
	)
}
