package query

import (
	"context"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// ListParams selects one page of the list endpoint.
type ListParams struct {
	Limit   int
	Offset  int
	Enabled bool
}

// ListQuery coordinates single-page list fetches keyed by (limit, offset).
type ListQuery struct {
	*observer[*client.ListPage]
	fetcher Fetcher
	params  ListParams
}

// NewListQuery creates a disabled list query. Call Set to activate it.
func NewListQuery(store *cache.Store, fetcher Fetcher, opts ...Option) *ListQuery {
	o := buildOptions(cache.ListPolicy, opts)
	return &ListQuery{
		observer: newObserver[*client.ListPage](store, o),
		fetcher:  fetcher,
	}
}

// Set updates the query input. While enabled, a change of limit or offset
// serves the cached page or starts a fetch; results for earlier inputs are
// discarded.
func (q *ListQuery) Set(ctx context.Context, p ListParams) {
	if p.Limit <= 0 {
		p.Limit = client.DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = client.DefaultOffset
	}

	q.mu.Lock()
	q.params = p
	q.mu.Unlock()

	limit, offset := p.Limit, p.Offset
	q.configure(ctx, ListKey(limit, offset), p.Enabled, func(ctx context.Context) (*client.ListPage, error) {
		return q.fetcher.FetchList(ctx, limit, offset)
	})
}

// Params returns the last input passed to Set.
func (q *ListQuery) Params() ListParams {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.params
}

// ListKey is the cache key of one list page.
func ListKey(limit, offset int) cache.Key {
	return cache.NewKey(KindList, "limit", strconv.Itoa(limit), "offset", strconv.Itoa(offset))
}
