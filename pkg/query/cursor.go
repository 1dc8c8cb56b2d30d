package query

import (
	"net/url"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// NextOffset returns the offset of the page following page. ok is false when
// page has no Next link or the link carries no parseable offset; either case
// ends the incremental session.
func NextOffset(page *client.ListPage) (int, bool) {
	if page == nil || page.Next == nil {
		return 0, false
	}
	u, err := url.Parse(*page.Next)
	if err != nil {
		return 0, false
	}
	raw := u.Query().Get("offset")
	if raw == "" {
		return 0, false
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}
