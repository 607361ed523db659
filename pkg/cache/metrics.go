package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts Get calls answered from Redis.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookapi_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	// CacheMisses counts Get calls that had to run the producer.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookapi_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheErrors counts Redis failures by operation ("get", "set", "decode", "tags", "invalidate").
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookapi_cache_errors_total",
			Help: "Total number of response cache errors",
		},
		[]string{"operation"},
	)

	// CacheInvalidations counts tag invalidations.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookapi_cache_invalidations_total",
			Help: "Total number of cache tag invalidations",
		},
		[]string{"tag"},
	)
)
