package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_upstream_requests_total",
		Help: "Upstream explorer API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_upstream_duration_ms",
		Help:    "Upstream explorer API call duration in milliseconds, retries included",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"endpoint"})
	SummaryCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "explorer_summary_cache_hits_total",
		Help: "Contractor summary lookups served from the session cache",
	})
	SummaryCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "explorer_summary_cache_misses_total",
		Help: "Contractor summary lookups that needed the store or the network",
	})
	SummaryStoreHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "explorer_summary_store_hits_total",
		Help: "Contractor summary misses answered by the shared store",
	})
	LayerLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_layer_loads_total",
		Help: "Contractor layer fetches by outcome",
	}, []string{"outcome"})
	DroppedFeaturesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_dropped_features_total",
		Help: "Areas or blocks dropped at ingestion",
	}, []string{"kind", "reason"})
	ClusterRecomputeMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "explorer_cluster_recompute_ms",
		Help:    "Cluster recomputation duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100},
	})
	ToastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_toasts_total",
		Help: "Toast notifications shown to users",
	}, []string{"kind"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_active_sessions",
		Help: "Open map sessions",
	})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(SummaryCacheHitsTotal)
	prometheus.MustRegister(SummaryCacheMissesTotal)
	prometheus.MustRegister(SummaryStoreHitsTotal)
	prometheus.MustRegister(LayerLoadsTotal)
	prometheus.MustRegister(DroppedFeaturesTotal)
	prometheus.MustRegister(ClusterRecomputeMs)
	prometheus.MustRegister(ToastsTotal)
	prometheus.MustRegister(ActiveSessions)
}

// MetricsHandler exposes the default registry for scraping.
func MetricsHandler() http.Handler { return promhttp.Handler() }
