// Package metrics provides the Prometheus registry used by the catalog client.
// All metrics are defined in their respective packages (client, cache, query)
// to keep packages independent.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective
// packages; the CLI's /metrics endpoint registers its scrape counters here.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Families returns the names of all gathered metric families with the
// "pokedex_" prefix.
func Families() ([]string, error) {
	mfs, err := Gatherer.Gather()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, mf := range mfs {
		if name := mf.GetName(); strings.HasPrefix(name, "pokedex_") {
			names = append(names, name)
		}
	}
	return names, nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pokedex_api_requests_total{op, status} (Counter): Requests by operation and HTTP status
//   - pokedex_api_request_duration_seconds{op} (Histogram): Request duration by operation
//   - pokedex_api_errors_total{class} (Counter): Errors by class (client, server, network, unexpected)
//
// Cache Metrics (pkg/cache):
//   - pokedex_cache_hits_total{state} (Counter): Hits by state (fresh, stale)
//   - pokedex_cache_misses_total (Counter): Lookups without a usable entry
//   - pokedex_cache_evictions_total (Counter): Entries evicted after disuse
//   - pokedex_cache_entries (Gauge): Live entries
//   - pokedex_cache_deduplicated_fetches_total (Counter): Fetches served by an in-flight request
//   - pokedex_cache_fetch_errors_total{kind} (Counter): Failed fetches by query kind
//
// Coordinator Metrics (pkg/query):
//   - pokedex_query_stale_responses_total{kind} (Counter): Results discarded after parameters changed
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pokedex_cache_hits_total[5m])) /
//   (sum(rate(pokedex_cache_hits_total[5m])) + sum(rate(pokedex_cache_misses_total[5m])))
//
//   # Share of fetches collapsed into another request
//   rate(pokedex_cache_deduplicated_fetches_total[5m]) / rate(pokedex_api_requests_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(pokedex_api_request_duration_seconds_bucket[5m]))
