package listing

import (
	"github.com/vietddude/console/internal/core/pagination"
)

// View is a loaded page together with its navigation markers.
type View[T any] struct {
	Resource string              `json:"resource"`
	Filter   map[string]string   `json:"filter,omitempty"`
	Items    []T                 `json:"items"`
	Total    int                 `json:"total"`
	Window   pagination.Window   `json:"window"`
	Markers  []pagination.Marker `json:"markers"`
}

// NewView pairs res with the markers for q.
// Markers are recomputed from the returned total, never cached across fetches.
func NewView[T any](q Query, res PageResult[T], siblingCount int) View[T] {
	req := pagination.Request{
		TotalItems:   res.Total,
		PageSize:     q.PageSize,
		CurrentPage:  q.Page,
		SiblingCount: siblingCount,
	}
	items := res.Items
	if items == nil {
		items = []T{}
	}
	markers := req.Markers()
	if markers == nil {
		markers = []pagination.Marker{}
	}
	return View[T]{
		Resource: q.Resource,
		Filter:   q.Filter,
		Items:    items,
		Total:    res.Total,
		Window:   req.Window(),
		Markers:  markers,
	}
}
