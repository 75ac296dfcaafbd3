package social

import (
	"context"
	"errors"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// ErrNoMoreItems is returned by Next once the iterator is exhausted.
var ErrNoMoreItems = errors.New("no more items available")

// PageFetcher loads one server page. meta may be nil when the server sends
// no pagination block.
type PageFetcher[T any] func(ctx context.Context, page, limit int) ([]*T, *types.PageMeta, error)

// PageIterator walks a paginated endpoint item by item, following the
// server's nextPage pointer.
type PageIterator[T any] struct {
	ctx       context.Context
	fetch     PageFetcher[T]
	limit     int
	nextPage  int
	buffer    []*T
	bufferIdx int
	hasMore   bool
	err       error
}

const maxIteratorLimit = 100

func newPageIterator[T any](ctx context.Context, limit int, fetch PageFetcher[T]) *PageIterator[T] {
	it := &PageIterator[T]{ctx: ctx, fetch: fetch}
	it.WithLimit(limit)
	it.Reset()
	return it
}

// NewPostsIterator iterates over every post matching q. q's page is ignored.
func (c *Client) NewPostsIterator(ctx context.Context, q *types.PostsQuery) *PageIterator[types.Post] {
	base := types.PostsQuery{}
	if q != nil {
		base = *q
	}
	return newPageIterator(ctx, base.Limit, func(ctx context.Context, page, limit int) ([]*types.Post, *types.PageMeta, error) {
		query := base
		query.Page, query.Limit = page, limit
		resp, err := c.ListPostsPage(ctx, &query)
		if err != nil {
			return nil, nil, err
		}
		return resp.Posts, resp.Meta, nil
	})
}

// NewProfilesIterator iterates over every profile.
func (c *Client) NewProfilesIterator(ctx context.Context, q *types.ProfilesQuery) *PageIterator[types.Profile] {
	base := types.ProfilesQuery{}
	if q != nil {
		base = *q
	}
	return newPageIterator(ctx, base.Limit, func(ctx context.Context, page, limit int) ([]*types.Profile, *types.PageMeta, error) {
		query := base
		query.Page, query.Limit = page, limit
		resp, err := c.ListProfilesPage(ctx, &query)
		if err != nil {
			return nil, nil, err
		}
		return resp.Profiles, resp.Meta, nil
	})
}

// NewProfilePostsIterator iterates over every post written by name.
func (c *Client) NewProfilePostsIterator(ctx context.Context, name string, q *types.PostsQuery) *PageIterator[types.Post] {
	base := types.PostsQuery{}
	if q != nil {
		base = *q
	}
	return newPageIterator(ctx, base.Limit, func(ctx context.Context, page, limit int) ([]*types.Post, *types.PageMeta, error) {
		query := base
		query.Page, query.Limit = page, limit
		resp, err := c.ListProfilePostsPage(ctx, name, &query)
		if err != nil {
			return nil, nil, err
		}
		return resp.Posts, resp.Meta, nil
	})
}

// WithLimit sets the number of items to fetch per request.
func (it *PageIterator[T]) WithLimit(limit int) *PageIterator[T] {
	if limit > maxIteratorLimit || limit <= 0 {
		limit = maxIteratorLimit
	}
	it.limit = limit
	return it
}

// HasNext returns true if there may be more items to iterate through.
func (it *PageIterator[T]) HasNext() bool {
	if it.err != nil {
		return false
	}
	return it.bufferIdx < len(it.buffer) || it.hasMore
}

// Next returns the next item in the iteration.
func (it *PageIterator[T]) Next() (*T, error) {
	for {
		if it.err != nil {
			return nil, it.err
		}

		if it.bufferIdx >= len(it.buffer) {
			if !it.hasMore {
				return nil, ErrNoMoreItems
			}
			if err := it.fetchPage(); err != nil {
				return nil, err
			}
			if len(it.buffer) == 0 {
				return nil, ErrNoMoreItems
			}
		}

		item := it.buffer[it.bufferIdx]
		it.bufferIdx++
		if item != nil {
			return item, nil
		}
	}
}

func (it *PageIterator[T]) fetchPage() error {
	page := it.nextPage
	items, meta, err := it.fetch(it.ctx, page, it.limit)
	if err != nil {
		it.err = err
		return err
	}

	it.buffer = items
	it.bufferIdx = 0

	// Stop unless the server points strictly forward.
	switch {
	case len(items) == 0, meta == nil, meta.IsLastPage, meta.NextPage == nil, *meta.NextPage <= page:
		it.hasMore = false
	default:
		it.nextPage = *meta.NextPage
	}
	return nil
}

// Error returns any error encountered during iteration.
func (it *PageIterator[T]) Error() error {
	return it.err
}

// Reset resets the iterator to start from the first page.
func (it *PageIterator[T]) Reset() {
	it.buffer = nil
	it.bufferIdx = 0
	it.nextPage = 1
	it.hasMore = true
	it.err = nil
}

// Collect fetches all remaining items up to maxItems. A maxItems of zero or less
// collects everything. The returned slice is never nil.
func (it *PageIterator[T]) Collect(maxItems int) ([]*T, error) {
	items := []*T{}

	for it.HasNext() && (maxItems <= 0 || len(items) < maxItems) {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			break
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}

	return items, nil
}
