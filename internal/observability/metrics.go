package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lattice_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedQueries counts feed list queries by whether a search filter was used.
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lattice_feed_queries_total",
		Help: "Total number of feed list queries",
	}, []string{"filtered"})

	// AggregateRecomputes counts derived-index recomputations per aggregate.
	AggregateRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lattice_aggregate_recomputes_total",
		Help: "Total number of derived-index cache recomputations",
	}, []string{"aggregate"})

	// MediaServes counts successfully resolved /uploads downloads.
	MediaServes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lattice_media_serves_total",
		Help: "Total number of served media files",
	})

	// MediaUploadBytes records uploaded file sizes per kind (avatar, post).
	MediaUploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lattice_media_upload_bytes",
		Help:    "Uploaded media file sizes in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"kind"})
)

// InitHTTPMetrics creates the fiberprometheus middleware for HTTP-level
// request metrics.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
