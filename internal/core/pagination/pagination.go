// Package pagination computes which page controls a list view renders.
//
// Long page ranges are collapsed into gaps so that the number of markers stays
// bounded by the sibling window, whatever the item count.
package pagination

// Request describes one render of a paginated list.
type Request struct {
	TotalItems   int `json:"total_items"`
	PageSize     int `json:"page_size"`
	CurrentPage  int `json:"current_page"`
	SiblingCount int `json:"sibling_count"`
}

// TotalPages returns ceil(TotalItems / PageSize), or 0 for empty or invalid input.
func (r Request) TotalPages() int {
	return TotalPages(r.TotalItems, r.PageSize)
}

// Markers computes the navigation markers for r.
func (r Request) Markers() []Marker {
	return Markers(r.TotalItems, r.PageSize, r.CurrentPage, r.SiblingCount)
}

// TotalPages returns the number of pages needed to show totalItems.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		pages++
	}
	return pages
}

// Markers returns the ordered page markers to render.
//
// The result is nil when there is at most one page. Otherwise it always holds
// page 1 and the last page, the current page with up to siblingCount neighbours
// on each side, and a gap wherever more than one page is hidden.
// Concrete page numbers are strictly ascending.
func Markers(totalItems, pageSize, currentPage, siblingCount int) []Marker {
	totalPages := TotalPages(totalItems, pageSize)
	if totalPages <= 1 {
		return nil
	}
	if siblingCount < 0 {
		siblingCount = 0
	}
	currentPage = clamp(currentPage, 1, totalPages)

	// siblingCount*2 + 3 >= totalPages, written so it cannot overflow:
	// the current page, its siblings, first and last page cover everything.
	if siblingCount >= (totalPages-2)/2 {
		return pageRange(nil, 1, totalPages)
	}

	// From here 2*siblingCount+1 < totalPages.
	leftSibling := max(currentPage-siblingCount, 1)
	rightSibling := totalPages
	if currentPage < totalPages-siblingCount {
		rightSibling = currentPage + siblingCount
	}

	showLeftGap := leftSibling > 2
	showRightGap := rightSibling < totalPages-1

	edgeCount := 1 + 2*siblingCount

	switch {
	case !showLeftGap && showRightGap:
		out := make([]Marker, 0, edgeCount+2)
		out = pageRange(out, 1, edgeCount)
		return append(out, Gap(), Page(totalPages))

	case showLeftGap && !showRightGap:
		out := make([]Marker, 0, edgeCount+2)
		out = append(out, Page(1), Gap())
		return pageRange(out, totalPages-edgeCount+1, totalPages)

	case showLeftGap && showRightGap:
		out := make([]Marker, 0, rightSibling-leftSibling+5)
		out = append(out, Page(1), Gap())
		out = pageRange(out, leftSibling, rightSibling)
		return append(out, Gap(), Page(totalPages))

	default:
		return pageRange(nil, 1, totalPages)
	}
}

func pageRange(dst []Marker, from, to int) []Marker {
	if dst == nil {
		dst = make([]Marker, 0, to-from+1)
	}
	for n := from; n <= to; n++ {
		dst = append(dst, Page(n))
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
