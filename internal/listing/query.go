// Package listing fetches paginated resource lists from the upstream API.
//
// Fetches go through the resilience executor; each loaded page is paired
// with the navigation markers a list view renders for it.
package listing

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
)

// Query identifies one page of a filtered resource list.
type Query struct {
	Resource string
	Filter   map[string]string
	Page     int
	PageSize int
}

// NewQuery returns a query for the first page of resource.
func NewQuery(resource string, pageSize int) Query {
	return Query{
		Resource: resource,
		Page:     1,
		PageSize: pageSize,
	}
}

// WithFilter returns a copy of q with key set to value.
// The page resets to 1 because the previous page may not exist in the new result set.
// An empty value removes the filter.
func (q Query) WithFilter(key, value string) Query {
	filter := maps.Clone(q.Filter)
	if filter == nil {
		filter = make(map[string]string)
	}
	if value == "" {
		delete(filter, key)
	} else {
		filter[key] = value
	}
	q.Filter = filter
	q.Page = 1
	return q
}

// WithPage returns a copy of q pointing at page n.
func (q Query) WithPage(n int) Query {
	if n < 1 {
		n = 1
	}
	q.Page = n
	return q
}

// Values encodes q as upstream query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, k := range slices.Sorted(maps.Keys(q.Filter)) {
		v.Set(k, q.Filter[k])
	}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}
