package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/rs/zerolog"
)

// fakeFetcher serves a catalog of total entries. Calls for an offset listed
// in gates block until the gate channel is closed.
type fakeFetcher struct {
	total int

	mu        sync.Mutex
	listCalls []int
	idCalls   []int
	nameCalls []string
	gates     map[int]chan struct{}
	fail      error
}

func newFakeFetcher(total int) *fakeFetcher {
	return &fakeFetcher{total: total, gates: make(map[int]chan struct{})}
}

func (f *fakeFetcher) gate(offset int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[offset] = ch
	return ch
}

func (f *fakeFetcher) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *fakeFetcher) ListCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...)
}

func (f *fakeFetcher) DetailCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.idCalls) + len(f.nameCalls)
}

func (f *fakeFetcher) FetchList(ctx context.Context, limit, offset int) (*client.ListPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, offset)
	gate := f.gates[offset]
	fail := f.fail
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail != nil {
		return nil, fail
	}

	page := &client.ListPage{Count: f.total, Results: []client.ListEntry{}}
	for i := offset; i < offset+limit && i < f.total; i++ {
		id := i + 1
		page.Results = append(page.Results, client.ListEntry{
			Name: fmt.Sprintf("mon-%d", id),
			URL:  fmt.Sprintf("https://example.test/api/v2/pokemon/%d/", id),
		})
	}
	if offset+limit < f.total {
		next := fmt.Sprintf("https://example.test/api/v2/pokemon?offset=%d&limit=%d", offset+limit, limit)
		page.Next = &next
	}
	return page, nil
}

func (f *fakeFetcher) FetchByID(ctx context.Context, id int) (*client.ItemDetail, error) {
	f.mu.Lock()
	f.idCalls = append(f.idCalls, id)
	fail := f.fail
	f.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	return fakeDetail(id, fmt.Sprintf("mon-%d", id)), nil
}

func (f *fakeFetcher) FetchByName(ctx context.Context, name string) (*client.ItemDetail, error) {
	f.mu.Lock()
	f.nameCalls = append(f.nameCalls, name)
	fail := f.fail
	f.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	var id int
	_, _ = fmt.Sscanf(strings.TrimPrefix(name, "mon-"), "%d", &id)
	return fakeDetail(id, name), nil
}

func fakeDetail(id int, name string) *client.ItemDetail {
	return &client.ItemDetail{
		ID:   id,
		Name: name,
		Types: []client.TypeSlot{
			{Slot: 1, Type: client.NamedResource{Name: "grass"}},
		},
	}
}

// testClock is a manually advanced clock for cache freshness tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(clock *testClock) *cache.Store {
	return cache.NewStore(cache.WithClock(clock.Now), cache.WithLogger(zerolog.Nop()))
}

var quiet = WithLogger(zerolog.Nop())
