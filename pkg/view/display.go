package view

import "github.com/Sternrassler/pokedex-client/pkg/client"

// DisplayItem is a list entry ready for rendering. ID is 0 when the entry
// URL carries no id.
type DisplayItem struct {
	ID   int
	Name string
	URL  string
}

// Normalize converts list entries to display items, preserving order.
func Normalize(entries []client.ListEntry) []DisplayItem {
	items := make([]DisplayItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, DisplayItem{
			ID:   client.ExtractID(e.URL),
			Name: e.Name,
			URL:  e.URL,
		})
	}
	return items
}
