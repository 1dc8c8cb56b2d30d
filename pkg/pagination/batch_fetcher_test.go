package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPageFetcher serves pages of a catalog with total entries.
type mockPageFetcher struct {
	total  int
	delay  time.Duration
	failAt int // offset that fails, -1 for none

	mu      sync.Mutex
	offsets []int
}

func (m *mockPageFetcher) FetchList(ctx context.Context, limit, offset int) (*client.ListPage, error) {
	m.mu.Lock()
	m.offsets = append(m.offsets, offset)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if offset == m.failAt {
		return nil, errors.New("server error")
	}

	page := &client.ListPage{Count: m.total}
	for i := offset; i < offset+limit && i < m.total; i++ {
		page.Results = append(page.Results, client.ListEntry{Name: fmt.Sprintf("mon-%d", i+1)})
	}
	return page, nil
}

func TestBatchFetcher_FetchPagesInOrder(t *testing.T) {
	mock := &mockPageFetcher{total: 100, delay: 5 * time.Millisecond, failAt: -1}
	bf := NewBatchFetcher(mock, DefaultConfig())

	pages, err := bf.FetchPages(context.Background(), 20, 2, 3)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, "mon-21", pages[0].Results[0].Name)
	assert.Equal(t, "mon-41", pages[1].Results[0].Name)
	assert.Equal(t, "mon-61", pages[2].Results[0].Name)
	assert.ElementsMatch(t, []int{20, 40, 60}, mock.offsets)
}

func TestBatchFetcher_PastEnd(t *testing.T) {
	mock := &mockPageFetcher{total: 45, failAt: -1}
	bf := NewBatchFetcher(mock, DefaultConfig())

	pages, err := bf.FetchPages(context.Background(), 20, 3, 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Results, 5)
	assert.Empty(t, pages[1].Results)
}

func TestBatchFetcher_Error(t *testing.T) {
	mock := &mockPageFetcher{total: 200, failAt: 40}
	bf := NewBatchFetcher(mock, Config{MaxConcurrency: 2})

	pages, err := bf.FetchPages(context.Background(), 20, 1, 5)
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "fetch page 3")
}

func TestBatchFetcher_ZeroCount(t *testing.T) {
	mock := &mockPageFetcher{total: 45, failAt: -1}
	bf := NewBatchFetcher(mock, DefaultConfig())

	pages, err := bf.FetchPages(context.Background(), 20, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, pages)
	assert.Empty(t, mock.offsets)
}

func TestBatchFetcher_ContextCancelled(t *testing.T) {
	mock := &mockPageFetcher{total: 200, delay: time.Second, failAt: -1}
	bf := NewBatchFetcher(mock, DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := bf.FetchPages(ctx, 20, 1, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewBatchFetcher_Defaults(t *testing.T) {
	bf := NewBatchFetcher(&mockPageFetcher{}, Config{})
	assert.Equal(t, 4, bf.config.MaxConcurrency)
}
