package query

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// InfiniteState is the observable state of an incremental list session.
type InfiniteState struct {
	// Pages in load order; never reordered or deduplicated
	Pages []*client.ListPage

	// HasMore is false once the last page carries no next cursor
	HasMore bool

	// IsFetchingMore is true while FetchNextPage is in flight
	IsFetchingMore bool

	Status     Status
	Err        error
	IsFetching bool
}

// Items returns the results of every page concatenated in page order.
func (s InfiniteState) Items() []client.ListEntry {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Results)
	}
	items := make([]client.ListEntry, 0, n)
	for _, p := range s.Pages {
		items = append(items, p.Results...)
	}
	return items
}

// Count returns the total reported by the most recent page, or 0.
func (s InfiniteState) Count() int {
	if len(s.Pages) == 0 {
		return 0
	}
	return s.Pages[len(s.Pages)-1].Count
}

// InfiniteListQuery accumulates list pages of a fixed size. The whole page
// sequence is cached under one key per page size.
type InfiniteListQuery struct {
	store   *cache.Store
	fetcher Fetcher
	opts    options

	mu         sync.Mutex
	configured bool
	enabled    bool
	limit      int
	gen        uint64
	state      InfiniteState

	listeners listeners
	wg        sync.WaitGroup
}

// NewInfiniteListQuery creates a disabled incremental list query.
func NewInfiniteListQuery(store *cache.Store, fetcher Fetcher, opts ...Option) *InfiniteListQuery {
	return &InfiniteListQuery{
		store:   store,
		fetcher: fetcher,
		opts:    buildOptions(cache.ListPolicy, opts),
	}
}

// InfiniteKey is the cache key of the page sequence for one page size.
func InfiniteKey(limit int) cache.Key {
	return cache.NewKey(KindListInfinite, "limit", strconv.Itoa(limit))
}

// State returns a snapshot of the session. Pages is shared and must not be
// modified.
func (q *InfiniteListQuery) State() InfiniteState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Enabled reports whether the session is active.
func (q *InfiniteListQuery) Enabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enabled
}

// Subscribe registers fn to be called after every state change.
func (q *InfiniteListQuery) Subscribe(fn func()) func() {
	return q.listeners.add(fn)
}

// Wait blocks until every fetch started so far has been applied or discarded.
func (q *InfiniteListQuery) Wait() {
	q.wg.Wait()
}

// Set updates the page size and enabled flag. Disabling drops the session;
// enabling starts a new one seeded from the cache when possible.
func (q *InfiniteListQuery) Set(ctx context.Context, limit int, enabled bool) {
	if limit <= 0 {
		limit = client.DefaultLimit
	}

	q.mu.Lock()
	if q.configured && q.enabled == enabled && q.limit == limit {
		q.mu.Unlock()
		return
	}

	if enabled {
		q.store.Acquire(InfiniteKey(limit))
	}
	if q.configured && q.enabled {
		q.store.Release(InfiniteKey(q.limit))
	}

	q.configured = true
	q.gen++
	q.limit = limit
	q.enabled = enabled
	q.state = InfiniteState{}

	if enabled {
		q.loadLocked(ctx)
	}
	q.mu.Unlock()

	q.listeners.notify()
}

func (q *InfiniteListQuery) loadLocked(ctx context.Context) {
	key := InfiniteKey(q.limit)

	if v, fresh, ok := q.store.Lookup(key); ok {
		if pages, typed := v.([]*client.ListPage); typed && len(pages) > 0 {
			q.state = InfiniteState{
				Pages:   pages,
				HasMore: hasMore(pages),
				Status:  StatusSuccess,
			}
			if fresh {
				return
			}
			q.state.IsFetching = true
			q.startLocked(ctx, false, len(pages))
			return
		}
	}

	q.state = InfiniteState{Status: StatusLoading, IsFetching: true}
	q.startLocked(ctx, false, 1)
}

// FetchNextPage loads the page after the last loaded one. It is a no-op when
// the session is disabled, exhausted or already fetching.
func (q *InfiniteListQuery) FetchNextPage(ctx context.Context) {
	q.mu.Lock()
	if !q.enabled || !q.state.HasMore || q.state.IsFetching || len(q.state.Pages) == 0 {
		q.mu.Unlock()
		return
	}
	offset, ok := NextOffset(q.state.Pages[len(q.state.Pages)-1])
	if !ok {
		q.state.HasMore = false
		q.mu.Unlock()
		q.listeners.notify()
		return
	}

	gen := q.gen
	limit := q.limit
	loaded := q.state.Pages
	q.state.IsFetching = true
	q.state.IsFetchingMore = true
	q.mu.Unlock()
	q.listeners.notify()

	q.run(ctx, gen, limit, func(ctx context.Context) (any, error) {
		page, err := q.fetcher.FetchList(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		pages := make([]*client.ListPage, len(loaded), len(loaded)+1)
		copy(pages, loaded)
		return append(pages, page), nil
	})
}

// Refetch reloads every page of the session in order, bypassing freshness.
func (q *InfiniteListQuery) Refetch(ctx context.Context) {
	q.mu.Lock()
	if !q.enabled {
		q.mu.Unlock()
		return
	}
	n := len(q.state.Pages)
	if n == 0 {
		n = 1
		q.state.Status = StatusLoading
		q.state.Err = nil
	}
	q.state.IsFetching = true
	q.startLocked(ctx, true, n)
	q.mu.Unlock()

	q.listeners.notify()
}

// startLocked fetches the first n pages of the session.
func (q *InfiniteListQuery) startLocked(ctx context.Context, force bool, n int) {
	gen := q.gen
	limit := q.limit

	q.opts.logger.Debug().
		Int("limit", limit).
		Int("pages", n).
		Bool("force", force).
		Msg("Loading page sequence")

	q.run(ctx, gen, limit, func(ctx context.Context) (any, error) {
		return q.fetchPages(ctx, limit, n)
	})
}

func (q *InfiniteListQuery) run(ctx context.Context, gen uint64, limit int, fn cache.FetchFunc) {
	key := InfiniteKey(limit)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		v, err := q.store.Fetch(ctx, key, q.opts.policy, fn)
		q.resolve(gen, key, v, err)
	}()
}

func (q *InfiniteListQuery) fetchPages(ctx context.Context, limit, n int) ([]*client.ListPage, error) {
	pages := make([]*client.ListPage, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		page, err := q.fetcher.FetchList(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		next, ok := NextOffset(page)
		if !ok {
			break
		}
		offset = next
	}
	return pages, nil
}

func (q *InfiniteListQuery) resolve(gen uint64, key cache.Key, v any, err error) {
	q.mu.Lock()
	if gen != q.gen {
		current := q.gen
		q.mu.Unlock()

		staleResponses.WithLabelValues(key.Kind).Inc()
		q.opts.logger.Debug().
			Str("key", key.String()).
			Uint64("generation", gen).
			Uint64("current_generation", current).
			Msg("Discarding stale response")
		return
	}

	q.state.IsFetching = false
	q.state.IsFetchingMore = false
	switch pages, typed := v.([]*client.ListPage); {
	case err != nil:
		q.state.Status = StatusError
		q.state.Err = err
		q.opts.logger.Warn().Err(err).Str("key", key.String()).Msg("Query fetch failed")
	case !typed:
		q.state.Status = StatusError
		q.state.Err = fmt.Errorf("query %s: unexpected cached type %T", key.Kind, v)
	default:
		q.state = InfiniteState{
			Pages:   pages,
			HasMore: hasMore(pages),
			Status:  StatusSuccess,
		}
	}
	q.mu.Unlock()

	q.listeners.notify()
}

func hasMore(pages []*client.ListPage) bool {
	if len(pages) == 0 {
		return false
	}
	_, ok := NextOffset(pages[len(pages)-1])
	return ok
}
