package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/view"
)

// listItem is the machine-readable form of a list entry.
type listItem struct {
	ID   int    `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
	URL  string `json:"url" yaml:"url" toml:"url"`
}

// listResult is what the list command prints.
type listResult struct {
	Count   int        `json:"count" yaml:"count" toml:"count"`
	HasMore bool       `json:"has_more" yaml:"has_more" toml:"has_more"`
	Items   []listItem `json:"items" yaml:"items" toml:"items"`

	summary string
}

func newListCommand(a *app) *cobra.Command {
	var (
		page     int
		pages    int
		infinite bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Long: `List catalog entries page by page.

With --pages K, K consecutive pages starting at --page are fetched in
parallel. With --infinite, K pages are loaded incrementally from the start.`,
		Example: `  pokedex list --page 3
  pokedex list --page 1 --pages 5 -o json
  pokedex list --infinite --pages 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("page must be >= 1 (got %d)", page)
			}
			if pages < 1 {
				return fmt.Errorf("pages must be >= 1 (got %d)", pages)
			}

			var (
				res *listResult
				err error
			)
			switch {
			case infinite:
				res, err = a.listIncremental(cmd.Context(), pages)
			case pages > 1:
				res, err = a.listBatch(cmd.Context(), page, pages)
			default:
				res, err = a.listPage(cmd.Context(), page)
			}
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), a.settings.Output, res)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show (1-based)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().BoolVar(&infinite, "infinite", false, "load pages incrementally from the start")
	return cmd
}

// listPage shows one page through the page-controls coordinator.
func (a *app) listPage(ctx context.Context, page int) (*listResult, error) {
	ctrl := a.controller()
	ctrl.SetPage(ctx, page)
	ctrl.Wait()

	if err := ctrl.Status().Err; err != nil {
		return nil, fmt.Errorf("list page %d: %w", page, err)
	}

	items := ctrl.Items()
	return &listResult{
		Count:   ctrl.Count(),
		HasMore: page < ctrl.TotalPages(),
		Items:   toListItems(items),
		summary: view.PageInfo(page, ctrl.TotalPages(), len(items)),
	}, nil
}

// listIncremental loads pages through the load-more coordinator.
func (a *app) listIncremental(ctx context.Context, pages int) (*listResult, error) {
	ctrl := a.controller()
	ctrl.SetMode(ctx, view.ModeInfiniteScroll)
	ctrl.Wait()

	for i := 1; i < pages && ctrl.Status().HasMore && ctrl.Status().Err == nil; i++ {
		ctrl.LoadMore(ctx)
		ctrl.Wait()
	}

	status := ctrl.Status()
	if status.Err != nil {
		return nil, fmt.Errorf("list: %w", status.Err)
	}

	items := ctrl.Items()
	return &listResult{
		Count:   ctrl.Count(),
		HasMore: status.HasMore,
		Items:   toListItems(items),
		summary: view.LoadedInfo(len(items), status.HasMore),
	}, nil
}

// listBatch fetches a page range in parallel.
func (a *app) listBatch(ctx context.Context, first, pages int) (*listResult, error) {
	perPage := a.settings.PerPage
	bf := pagination.NewBatchFetcher(a.client, pagination.DefaultConfig())

	fetched, err := bf.FetchPages(ctx, perPage, first, pages)
	if err != nil {
		return nil, fmt.Errorf("list pages %d-%d: %w", first, first+pages-1, err)
	}

	res := &listResult{}
	for _, p := range fetched {
		res.Count = p.Count
		res.Items = append(res.Items, toListItems(view.Normalize(p.Results))...)
	}

	total := pagination.TotalPages(res.Count, perPage)
	last := first + pages - 1
	res.HasMore = last < total
	res.summary = fmt.Sprintf("Pages %d-%d of %d (%d Pokémon shown)", first, last, total, len(res.Items))
	return res, nil
}

func toListItems(items []view.DisplayItem) []listItem {
	out := make([]listItem, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{ID: it.ID, Name: it.Name, URL: it.URL})
	}
	return out
}

func writeList(w io.Writer, format string, res *listResult) error {
	switch format {
	case "json", "yaml", "toml":
		return encode(w, format, res)
	}

	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No Pokémon found")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "URL")
	for _, it := range res.Items {
		_ = table.Append(view.FormatID(it.ID, view.DefaultIDDigits), it.Name, it.URL)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w, res.summary)
	return nil
}
