package query

import (
	"context"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// DetailByIDQuery coordinates detail fetches by numeric id.
type DetailByIDQuery struct {
	*observer[*client.ItemDetail]
	fetcher Fetcher
}

// NewDetailByIDQuery creates a disabled detail query.
func NewDetailByIDQuery(store *cache.Store, fetcher Fetcher, opts ...Option) *DetailByIDQuery {
	o := buildOptions(cache.DetailPolicy, opts)
	return &DetailByIDQuery{
		observer: newObserver[*client.ItemDetail](store, o),
		fetcher:  fetcher,
	}
}

// Set selects the item. The query only fetches when id is positive and
// enabled is true.
func (q *DetailByIDQuery) Set(ctx context.Context, id int, enabled bool) {
	q.configure(ctx, DetailByIDKey(id), enabled && id > 0, func(ctx context.Context) (*client.ItemDetail, error) {
		return q.fetcher.FetchByID(ctx, id)
	})
}

// DetailByNameQuery coordinates detail fetches by name. Its cache entries
// are independent of DetailByIDQuery even when both describe the same item.
type DetailByNameQuery struct {
	*observer[*client.ItemDetail]
	fetcher Fetcher
}

// NewDetailByNameQuery creates a disabled detail query.
func NewDetailByNameQuery(store *cache.Store, fetcher Fetcher, opts ...Option) *DetailByNameQuery {
	o := buildOptions(cache.DetailPolicy, opts)
	return &DetailByNameQuery{
		observer: newObserver[*client.ItemDetail](store, o),
		fetcher:  fetcher,
	}
}

// Set selects the item. The query only fetches when name is non-empty and
// enabled is true.
func (q *DetailByNameQuery) Set(ctx context.Context, name string, enabled bool) {
	q.configure(ctx, DetailByNameKey(name), enabled && name != "", func(ctx context.Context) (*client.ItemDetail, error) {
		return q.fetcher.FetchByName(ctx, name)
	})
}

// DetailByIDKey is the cache key of a detail fetched by id.
func DetailByIDKey(id int) cache.Key {
	return cache.NewKey(KindDetailByID, "id", strconv.Itoa(id))
}

// DetailByNameKey is the cache key of a detail fetched by name.
func DetailByNameKey(name string) cache.Key {
	return cache.NewKey(KindDetailByName, "name", name)
}
