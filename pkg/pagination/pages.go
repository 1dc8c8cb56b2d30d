package pagination

// Ellipsis marks a gap in a VisiblePages window.
const Ellipsis = -1

// TotalPages returns ceil(count/perPage). A non-positive perPage or count
// yields 0.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Offset returns the list offset of a 1-based page. Pages below 1 map to 0.
func Offset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	return (page - 1) * perPage
}

// ShowControls reports whether page controls are worth rendering.
func ShowControls(totalPages int) bool {
	return totalPages > 1
}

// Clamp limits page to [1, totalPages]. With no pages it returns 1.
func Clamp(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// VisiblePages returns the page numbers to render around current: the first
// and last page, current±delta, and Ellipsis where pages are skipped.
//
//	VisiblePages(10, 58, 2) // [1 … 8 9 10 11 12 … 58]
func VisiblePages(current, totalPages, delta int) []int {
	if totalPages < 1 {
		return nil
	}
	if delta < 0 {
		delta = 0
	}
	current = Clamp(current, totalPages)

	lo := current - delta
	if lo < 2 {
		lo = 2
	}
	hi := current + delta
	if hi > totalPages-1 {
		hi = totalPages - 1
	}

	pages := []int{1}
	if lo > 2 {
		pages = append(pages, Ellipsis)
	}
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}
	if hi < totalPages-1 {
		pages = append(pages, Ellipsis)
	}
	if totalPages > 1 {
		pages = append(pages, totalPages)
	}
	return pages
}
