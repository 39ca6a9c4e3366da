package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache operations.
var (
	// CacheHits counts payloads served from Redis.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrez_cache_hits_total",
		Help: "Total direct-fetch payloads served from cache",
	})

	// CacheMisses counts lookups that went to the network.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrez_cache_misses_total",
		Help: "Total direct-fetch cache misses",
	})

	// CacheErrors counts failed cache operations by operation name.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_cache_errors_total",
		Help: "Total cache operation errors",
	}, []string{"operation"})
)
