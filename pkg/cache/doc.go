// Package cache provides the process-wide query cache shared by all
// coordinators.
//
// Entries are keyed by operation kind and parameters and carry two windows:
//
//   - StaleTime: after a successful fetch the value is served without a
//     network call
//   - GCTime: an entry without observers that is not read or written for
//     this long is evicted
//
// Between the two a lookup still returns the value but reports it stale so
// the caller can revalidate in the background.
//
// Coordinators bracket the time they show a key with Acquire and Release.
// An observed entry is never evicted; its disuse window starts at the last
// Release.
//
// # Basic Usage
//
//	store := cache.NewStore()
//	key := cache.NewKey("pokemon-list", "limit", "20", "offset", "0")
//
//	if v, fresh, ok := store.Lookup(key); ok && fresh {
//		return v.(*client.ListPage), nil
//	}
//
//	v, err := store.Fetch(ctx, key, cache.ListPolicy, func(ctx context.Context) (any, error) {
//		return api.FetchList(ctx, 20, 0)
//	})
//
// # De-duplication
//
// Fetch collapses concurrent calls for the same key into one execution of
// the fetch function (golang.org/x/sync/singleflight). Every caller receives
// the same value or error.
//
// # Metrics
//
//   - pokedex_cache_hits_total{state="fresh|stale"}
//   - pokedex_cache_misses_total
//   - pokedex_cache_evictions_total
//   - pokedex_cache_entries
//   - pokedex_cache_deduplicated_fetches_total
//   - pokedex_cache_fetch_errors_total{kind}
package cache
