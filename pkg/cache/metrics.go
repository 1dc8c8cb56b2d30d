package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by state (fresh, stale)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"state"}, // "fresh", "stale"
	)

	// CacheMisses tracks lookups that found no usable entry
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_cache_misses_total",
			Help: "Total number of query cache misses",
		},
	)

	// CacheEvictions tracks entries removed after their disuse window
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_cache_evictions_total",
			Help: "Total number of query cache entries evicted after disuse",
		},
	)

	// CacheEntries tracks the number of live entries
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokedex_cache_entries",
			Help: "Current number of query cache entries",
		},
	)

	// DedupedFetches tracks fetches that shared another caller's in-flight request
	DedupedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_cache_deduplicated_fetches_total",
			Help: "Total number of fetches served by an in-flight request for the same key",
		},
	)

	// FetchErrors tracks failed fetches by kind
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_cache_fetch_errors_total",
			Help: "Total number of failed fetches through the query cache",
		},
		[]string{"kind"},
	)
)
