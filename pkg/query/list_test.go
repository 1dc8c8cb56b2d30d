package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_DisabledIsIdle(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: false})
	q.Wait()

	state := q.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.False(t, state.HasData)
	assert.Empty(t, fetcher.ListCalls())
}

func TestListQuery_LoadsPage(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 20, Enabled: true})
	assert.True(t, q.State().IsLoading())

	q.Wait()
	state := q.State()
	require.True(t, state.IsSuccess())
	assert.False(t, state.IsFetching)
	assert.Equal(t, 45, state.Data.Count)
	require.Len(t, state.Data.Results, 20)
	assert.Equal(t, "mon-21", state.Data.Results[0].Name)
	assert.Equal(t, []int{20}, fetcher.ListCalls())
}

func TestListQuery_Defaults(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 0, Offset: -5, Enabled: true})
	q.Wait()

	assert.Equal(t, ListParams{Limit: 20, Offset: 0, Enabled: true}, q.Params())
	assert.Equal(t, []int{0}, fetcher.ListCalls())
}

func TestListQuery_FreshCacheServedWithoutNetwork(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(clock)
	fetcher := newFakeFetcher(45)

	first := NewListQuery(store, fetcher, quiet)
	first.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	first.Wait()

	clock.Advance(4 * time.Minute)

	second := NewListQuery(store, fetcher, quiet)
	second.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})

	state := second.State()
	assert.True(t, state.IsSuccess())
	assert.False(t, state.IsFetching)
	assert.Len(t, fetcher.ListCalls(), 1)
}

func TestListQuery_StaleCacheRevalidates(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(clock)
	fetcher := newFakeFetcher(45)

	q := NewListQuery(store, fetcher, quiet)
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	clock.Advance(6 * time.Minute)

	other := NewListQuery(store, fetcher, quiet)
	other.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})

	state := other.State()
	assert.True(t, state.IsSuccess(), "stale data is shown immediately")
	assert.True(t, state.IsFetching)

	other.Wait()
	assert.False(t, other.State().IsFetching)
	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestListQuery_EvictedCacheLoads(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(clock)
	fetcher := newFakeFetcher(45)

	q := NewListQuery(store, fetcher, quiet)
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: false})

	clock.Advance(11 * time.Minute)

	other := NewListQuery(store, fetcher, quiet)
	other.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	assert.True(t, other.State().IsLoading())

	other.Wait()
	assert.True(t, other.State().IsSuccess())
	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestListQuery_ObservedEntryIsNotEvicted(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(clock)
	fetcher := newFakeFetcher(45)

	q := NewListQuery(store, fetcher, quiet)
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 0, store.Sweep())

	other := NewListQuery(store, fetcher, quiet)
	other.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})

	state := other.State()
	assert.True(t, state.IsSuccess(), "stale data is shown while the page is on screen")
	assert.True(t, state.IsFetching)
	other.Wait()
}

func TestListQuery_DisuseCountsFromRelease(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(clock)
	fetcher := newFakeFetcher(45)
	ctx := context.Background()

	q := NewListQuery(store, fetcher, quiet)
	q.Set(ctx, ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	clock.Advance(9*time.Minute + 30*time.Second)
	q.Set(ctx, ListParams{Limit: 20, Offset: 0, Enabled: false})

	entry, ok := store.Peek(ListKey(20, 0))
	require.True(t, ok)
	assert.Equal(t, 0, entry.Observers)

	clock.Advance(time.Minute)
	q.Set(ctx, ListParams{Limit: 20, Offset: 0, Enabled: true})

	state := q.State()
	require.True(t, state.HasData, "entry released one minute ago must survive")
	assert.True(t, state.IsSuccess())
	assert.True(t, state.IsFetching, "stale entry revalidates in the background")

	q.Wait()
	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestListQuery_KeyChangeReleasesPreviousKey(t *testing.T) {
	store := newTestStore(newTestClock())
	fetcher := newFakeFetcher(45)
	ctx := context.Background()

	q := NewListQuery(store, fetcher, quiet)
	q.Set(ctx, ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()
	q.Set(ctx, ListParams{Limit: 20, Offset: 20, Enabled: true})
	q.Wait()

	first, ok := store.Peek(ListKey(20, 0))
	require.True(t, ok)
	assert.Equal(t, 0, first.Observers)

	second, ok := store.Peek(ListKey(20, 20))
	require.True(t, ok)
	assert.Equal(t, 1, second.Observers)
}

func TestListQuery_UnchangedInputIsNoop(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	notified := 0
	unsubscribe := q.Subscribe(func() { notified++ })
	defer unsubscribe()

	p := ListParams{Limit: 20, Offset: 0, Enabled: true}
	q.Set(context.Background(), p)
	q.Wait()
	before := notified

	q.Set(context.Background(), p)
	q.Wait()

	assert.Equal(t, before, notified)
	assert.Len(t, fetcher.ListCalls(), 1)
}

func TestListQuery_DiscardsStaleResponse(t *testing.T) {
	fetcher := newFakeFetcher(45)
	release := fetcher.gate(0)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	before := testutil.ToFloat64(staleResponses.WithLabelValues(KindList))

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 20, Enabled: true})

	require.Eventually(t, func() bool {
		return q.State().IsSuccess()
	}, time.Second, 5*time.Millisecond)

	close(release)
	q.Wait()

	state := q.State()
	require.True(t, state.IsSuccess())
	assert.Equal(t, "mon-21", state.Data.Results[0].Name)
	assert.Equal(t, before+1, testutil.ToFloat64(staleResponses.WithLabelValues(KindList)))
}

func TestListQuery_DisableDiscardsInFlight(t *testing.T) {
	fetcher := newFakeFetcher(45)
	release := fetcher.gate(0)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: false})

	close(release)
	q.Wait()

	assert.Equal(t, StatusIdle, q.State().Status)
	assert.False(t, q.State().HasData)
}

func TestListQuery_ErrorAndRefetch(t *testing.T) {
	fetcher := newFakeFetcher(45)
	failure := &client.APIError{Op: client.OpList, StatusCode: 500, StatusText: "Internal Server Error", ErrorClass: client.ErrorClassServer}
	fetcher.setFail(failure)

	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)
	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	state := q.State()
	require.True(t, state.IsError())
	assert.True(t, errors.Is(state.Err, client.ErrNetworkFailure))
	assert.False(t, state.HasData)

	fetcher.setFail(nil)
	q.Refetch(context.Background())
	q.Wait()

	assert.True(t, q.State().IsSuccess())
	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestListQuery_RefetchBypassesFreshness(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	q.Refetch(context.Background())
	assert.True(t, q.State().IsSuccess(), "data stays visible during refetch")
	q.Wait()

	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestListQuery_RefetchErrorKeepsData(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Set(context.Background(), ListParams{Limit: 20, Offset: 0, Enabled: true})
	q.Wait()

	fetcher.setFail(errors.New("boom"))
	q.Refetch(context.Background())
	q.Wait()

	state := q.State()
	assert.True(t, state.IsError())
	assert.True(t, state.HasData)
	assert.Len(t, state.Data.Results, 20)
}

func TestListQuery_RefetchDisabledIsNoop(t *testing.T) {
	fetcher := newFakeFetcher(45)
	q := NewListQuery(newTestStore(newTestClock()), fetcher, quiet)

	q.Refetch(context.Background())
	q.Wait()

	assert.Empty(t, fetcher.ListCalls())
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "pokedex:pokemon-list:limit=20:offset=40", ListKey(20, 40).String())
}
