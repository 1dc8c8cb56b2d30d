package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	MaxConcurrency int
	// Timeout per page fetch; 0 disables the per-page timeout
	Timeout time.Duration
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// PageFetcher fetches one page of the list endpoint. *client.Client
// implements it.
type PageFetcher interface {
	FetchList(ctx context.Context, limit, offset int) (*client.ListPage, error)
}

// PageResult is the outcome of fetching a single page.
type PageResult struct {
	PageNumber int
	Page       *client.ListPage
	Error      error
}

// BatchFetcher fetches ranges of list pages in parallel.
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout < 0 {
		config.Timeout = 0
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchPages fetches count consecutive pages of perPage entries starting at
// the 1-based page first. The result is in page order. Pages past the end of
// the list come back empty; the caller trims them with TotalPages.
func (bf *BatchFetcher) FetchPages(ctx context.Context, perPage, first, count int) ([]*client.ListPage, error) {
	if perPage <= 0 {
		perPage = client.DefaultLimit
	}
	if first < 1 {
		first = 1
	}
	if count <= 0 {
		return nil, nil
	}

	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Debug().
		Int("first_page", first).
		Int("pages", count).
		Int("per_page", perPage).
		Msg("Starting parallel page fetch")

	pageQueue := make(chan int, count)
	for page := first; page < first+count; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	workers := bf.config.MaxConcurrency
	if workers > count {
		workers = count
	}

	pageResults := make(chan PageResult, count)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go bf.worker(ctx, perPage, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	pages := make([]*client.ListPage, count)
	var firstErr error
	for result := range pageResults {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch page %d: %w", result.PageNumber, result.Error)
				cancel()
			}
			continue
		}
		pages[result.PageNumber-first] = result.Page
	}
	if firstErr != nil {
		return nil, firstErr
	}

	log.Debug().
		Int("pages", count).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return pages, nil
}

// worker processes pages from the queue
func (bf *BatchFetcher) worker(ctx context.Context, perPage int, pageQueue <-chan int, results chan<- PageResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		pageCtx, cancel := ctx, context.CancelFunc(func() {})
		if bf.config.Timeout > 0 {
			pageCtx, cancel = context.WithTimeout(ctx, bf.config.Timeout)
		}
		page, err := bf.fetcher.FetchList(pageCtx, perPage, Offset(pageNum, perPage))
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
		}

		// results is buffered for every page
		results <- PageResult{PageNumber: pageNum, Page: page, Error: err}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}
