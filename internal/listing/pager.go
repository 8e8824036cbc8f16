package listing

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned when the query changed while a fetch was in flight.
// The fetched page is discarded; the caller should render the newer load instead.
var ErrStale = errors.New("listing: query changed during fetch")

// Pager holds the filter and page state of one list view.
// Changing the page or a filter triggers a new fetch.
type Pager[T any] struct {
	client   *Client
	siblings int

	mu    sync.Mutex
	query Query
	gen   uint64
}

// NewPager creates a pager starting at q.
func NewPager[T any](c *Client, q Query, siblingCount int) *Pager[T] {
	if q.Page < 1 {
		q.Page = 1
	}
	return &Pager[T]{
		client:   c,
		siblings: siblingCount,
		query:    q,
	}
}

// Query returns the current query.
func (p *Pager[T]) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Load fetches the page for the current query.
func (p *Pager[T]) Load(ctx context.Context) (View[T], error) {
	p.mu.Lock()
	q, gen := p.query, p.gen
	p.mu.Unlock()

	return p.load(ctx, q, gen)
}

// GoTo moves to page n and fetches it.
func (p *Pager[T]) GoTo(ctx context.Context, n int) (View[T], error) {
	return p.update(ctx, func(q Query) Query { return q.WithPage(n) })
}

// SetFilter sets a filter, resets to the first page and fetches it.
func (p *Pager[T]) SetFilter(ctx context.Context, key, value string) (View[T], error) {
	return p.update(ctx, func(q Query) Query { return q.WithFilter(key, value) })
}

func (p *Pager[T]) update(ctx context.Context, fn func(Query) Query) (View[T], error) {
	p.mu.Lock()
	p.query = fn(p.query)
	p.gen++
	q, gen := p.query, p.gen
	p.mu.Unlock()

	return p.load(ctx, q, gen)
}

func (p *Pager[T]) load(ctx context.Context, q Query, gen uint64) (View[T], error) {
	res, err := Fetch[T](ctx, p.client, q)

	p.mu.Lock()
	stale := gen != p.gen
	p.mu.Unlock()

	if stale {
		return View[T]{}, ErrStale
	}
	if err != nil {
		return View[T]{}, err
	}
	return NewView(q, res, p.siblings), nil
}
