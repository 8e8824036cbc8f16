package pagination

// Window is the slice of items visible on one page.
type Window struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	// FirstItem and LastItem are 1-based and inclusive; both are 0 for an empty list.
	FirstItem int  `json:"first_item"`
	LastItem  int  `json:"last_item"`
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// Window returns the item range shown for r. CurrentPage is clamped to the valid range.
func (r Request) Window() Window {
	totalPages := r.TotalPages()
	if totalPages == 0 {
		return Window{Page: 1, Limit: max(r.PageSize, 0)}
	}

	page := clamp(r.CurrentPage, 1, totalPages)
	offset := (page - 1) * r.PageSize
	last := r.TotalItems
	if r.TotalItems-offset > r.PageSize {
		last = offset + r.PageSize
	}

	return Window{
		Page:       page,
		TotalPages: totalPages,
		Offset:     offset,
		Limit:      r.PageSize,
		FirstItem:  offset + 1,
		LastItem:   last,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}
