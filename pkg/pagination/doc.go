// Package pagination provides page arithmetic for offset/limit list endpoints
// and a concurrent fetcher for page ranges.
//
// The list endpoint reports a total count and accepts limit/offset. Pages are
// 1-based for display and map to offsets as (page-1)*perPage.
//
// Example usage:
//
//	total := pagination.TotalPages(page.Count, 20)
//	window := pagination.VisiblePages(current, total, 2)
//
//	fetcher := pagination.NewBatchFetcher(apiClient, pagination.DefaultConfig())
//	pages, err := fetcher.FetchPages(ctx, 20, 3, 5)
//
// The batch fetcher:
//   - Distributes the requested pages across a worker pool (default 4 workers)
//   - Returns pages in page order regardless of completion order
//   - Fails on the first page error and cancels the remaining work
package pagination
