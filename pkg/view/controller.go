package view

import (
	"context"
	"sync"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/query"
	"github.com/rs/zerolog"
)

// Status summarizes the active list for rendering.
type Status struct {
	// Loading is true while the first result of the active mode is pending
	Loading bool

	// Err is the last failure of the active coordinator
	Err error

	// Fetching is true while any request of the active mode is in flight
	Fetching bool

	// FetchingMore and HasMore describe the load-more action
	FetchingMore bool
	HasMore      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPerPage sets the page size. Non-positive values are ignored.
func WithPerPage(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithScrollHook sets the function called after every page change.
func WithScrollHook(fn func()) Option {
	return func(c *Controller) {
		c.onPageChange = fn
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithQueryOptions passes options to the coordinators the controller creates.
func WithQueryOptions(opts ...query.Option) Option {
	return func(c *Controller) {
		c.queryOpts = append(c.queryOpts, opts...)
	}
}

// Controller holds the browsing state: mode, page-controls page and the
// selected detail. It starts in ModePageControls on page 1.
type Controller struct {
	perPage      int
	onPageChange func()
	logger       zerolog.Logger
	queryOpts    []query.Option

	list     *query.ListQuery
	infinite *query.InfiniteListQuery
	detail   *query.DetailByIDQuery

	mu       sync.Mutex
	mode     Mode
	page     int
	detailID int

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func()
}

// NewController creates a controller over store and fetcher. Call Start to
// issue the first fetch.
func NewController(store *cache.Store, fetcher query.Fetcher, opts ...Option) *Controller {
	c := &Controller{
		perPage:      client.DefaultLimit,
		onPageChange: func() {},
		logger:       logging.NewLogger("view"),
		mode:         ModePageControls,
		page:         1,
		subs:         make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.list = query.NewListQuery(store, fetcher, c.queryOpts...)
	c.infinite = query.NewInfiniteListQuery(store, fetcher, c.queryOpts...)
	c.detail = query.NewDetailByIDQuery(store, fetcher, c.queryOpts...)

	c.list.Subscribe(c.notify)
	c.infinite.Subscribe(c.notify)
	c.detail.Subscribe(c.notify)

	return c
}

// Start enables the coordinator of the current mode.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	mode, page := c.mode, c.page
	c.mu.Unlock()

	c.apply(ctx, mode, page)
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// PerPage returns the page size.
func (c *Controller) PerPage() int {
	return c.perPage
}

// Page returns the observable page number. It is always 1 in
// ModeInfiniteScroll; the page-controls page is kept and restored when
// switching back.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeInfiniteScroll {
		return 1
	}
	return c.page
}

// SetMode switches the browsing mode. Only the coordinator of the new mode
// stays enabled.
func (c *Controller) SetMode(ctx context.Context, m Mode) {
	c.mu.Lock()
	if c.mode == m {
		c.mu.Unlock()
		return
	}
	c.mode = m
	page := c.page
	c.mu.Unlock()

	c.logger.Debug().Str("mode", m.String()).Int("page", page).Msg("Switching list mode")
	c.apply(ctx, m, page)
	c.notify()
}

// ToggleMode switches to the other mode.
func (c *Controller) ToggleMode(ctx context.Context) {
	c.SetMode(ctx, c.Mode().Toggle())
}

// SetPage selects a page in ModePageControls and calls the scroll hook.
// Pages below 1 are treated as 1. It is ignored in ModeInfiniteScroll.
func (c *Controller) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if c.mode != ModePageControls {
		c.mu.Unlock()
		return
	}
	c.page = page
	c.mu.Unlock()

	c.apply(ctx, ModePageControls, page)
	c.onPageChange()
	c.notify()
}

// NextPage moves forward one page, stopping at the last known page.
func (c *Controller) NextPage(ctx context.Context) {
	page := c.Page()
	if total := c.TotalPages(); total > 0 && page >= total {
		return
	}
	c.SetPage(ctx, page+1)
}

// PrevPage moves back one page, stopping at page 1.
func (c *Controller) PrevPage(ctx context.Context) {
	if page := c.Page(); page > 1 {
		c.SetPage(ctx, page-1)
	}
}

func (c *Controller) apply(ctx context.Context, m Mode, page int) {
	offset := pagination.Offset(page, c.perPage)
	pageMode := m == ModePageControls

	// Disable first so the outgoing coordinator drops in-flight results.
	if pageMode {
		c.infinite.Set(ctx, c.perPage, false)
		c.list.Set(ctx, query.ListParams{Limit: c.perPage, Offset: offset, Enabled: true})
	} else {
		c.list.Set(ctx, query.ListParams{Limit: c.perPage, Offset: offset, Enabled: false})
		c.infinite.Set(ctx, c.perPage, true)
	}
}

// Items returns the normalized entries of the active mode.
func (c *Controller) Items() []DisplayItem {
	if c.Mode() == ModeInfiniteScroll {
		return Normalize(c.infinite.State().Items())
	}
	state := c.list.State()
	if !state.HasData {
		return []DisplayItem{}
	}
	return Normalize(state.Data.Results)
}

// Count returns the total reported by the active mode's data, or 0.
func (c *Controller) Count() int {
	if c.Mode() == ModeInfiniteScroll {
		return c.infinite.State().Count()
	}
	state := c.list.State()
	if !state.HasData {
		return 0
	}
	return state.Data.Count
}

// TotalPages returns ceil(count/perPage) for the active data.
func (c *Controller) TotalPages() int {
	return pagination.TotalPages(c.Count(), c.perPage)
}

// ShowPagination reports whether page controls should be rendered.
func (c *Controller) ShowPagination() bool {
	return c.Mode() == ModePageControls && pagination.ShowControls(c.TotalPages())
}

// VisiblePages returns the page-controls window around the current page.
func (c *Controller) VisiblePages(delta int) []int {
	return pagination.VisiblePages(c.Page(), c.TotalPages(), delta)
}

// LoadMore fetches the next page in ModeInfiniteScroll.
func (c *Controller) LoadMore(ctx context.Context) {
	if c.Mode() != ModeInfiniteScroll {
		return
	}
	c.infinite.FetchNextPage(ctx)
}

// Retry re-fetches the active coordinator.
func (c *Controller) Retry(ctx context.Context) {
	if c.Mode() == ModeInfiniteScroll {
		c.infinite.Refetch(ctx)
		return
	}
	c.list.Refetch(ctx)
}

// Status returns the flags of the active mode.
func (c *Controller) Status() Status {
	if c.Mode() == ModeInfiniteScroll {
		s := c.infinite.State()
		return Status{
			Loading:      s.Status == query.StatusLoading,
			Err:          s.Err,
			Fetching:     s.IsFetching,
			FetchingMore: s.IsFetchingMore,
			HasMore:      s.HasMore,
		}
	}
	s := c.list.State()
	var err error
	if s.IsError() {
		err = s.Err
	}
	return Status{
		Loading:  s.IsLoading(),
		Err:      err,
		Fetching: s.IsFetching,
	}
}

// ShowDetail selects an item for the detail view.
func (c *Controller) ShowDetail(ctx context.Context, id int) {
	c.mu.Lock()
	c.detailID = id
	c.mu.Unlock()

	c.detail.Set(ctx, id, true)
}

// CloseDetail deselects the detail item. Its cache entry is kept.
func (c *Controller) CloseDetail(ctx context.Context) {
	c.mu.Lock()
	id := c.detailID
	c.detailID = 0
	c.mu.Unlock()

	c.detail.Set(ctx, id, false)
}

// Detail returns the state of the selected detail.
func (c *Controller) Detail() query.State[*client.ItemDetail] {
	return c.detail.State()
}

// RetryDetail re-fetches the selected detail.
func (c *Controller) RetryDetail(ctx context.Context) {
	c.detail.Refetch(ctx)
}

// Subscribe registers fn to be called after any change visible through the
// controller. The returned function removes the subscription.
func (c *Controller) Subscribe(fn func()) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// Wait blocks until every fetch started by the controller has completed.
func (c *Controller) Wait() {
	c.list.Wait()
	c.infinite.Wait()
	c.detail.Wait()
}

func (c *Controller) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
