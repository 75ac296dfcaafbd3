package social

import (
	"context"
	"net/url"
	"sync"

	"github.com/jamesprial/go-noroff-social/internal"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// DefaultGridPageSize is the number of items per server-paged grid page.
const DefaultGridPageSize = 12

// GridOptions configures a server-paged grid. The zero value is usable.
type GridOptions struct {
	// PageSize is sent as the limit parameter. Defaults to DefaultGridPageSize.
	PageSize int
	// Notifier defaults to the client's notifier.
	Notifier Notifier
}

// GridPage is what a server-paged grid renders for one page.
type GridPage[T any] struct {
	Items     []*T
	Meta      *types.PageMeta
	Page      int
	PageSize  int
	PageCount int
	Total     int
	HasPrev   bool
	HasNext   bool

	Err     error
	Message string
}

// ServerPager pages through an endpoint one server page at a time. Requests
// past the last page are clamped by refetching the last page.
type ServerPager[T any] struct {
	fetch    PageFetcher[T]
	refetch  func(ctx context.Context, item *T) (*T, error)
	key      func(*T) string
	notifier Notifier
	fallback string

	mu       sync.RWMutex
	pageSize int
	current  GridPage[T]
	loaded   bool
}

// ProfileGrid pages through the posts of one profile.
type ProfileGrid = ServerPager[types.Post]

// ProfileDirectory pages through all profiles.
type ProfileDirectory = ServerPager[types.Profile]

// NewProfileGrid creates a grid over the posts written by name.
func (c *Client) NewProfileGrid(name string, opts *GridOptions) *ProfileGrid {
	fetch := func(ctx context.Context, page, limit int) ([]*types.Post, *types.PageMeta, error) {
		resp, err := c.ListProfilePostsPage(ctx, name, &types.PostsQuery{
			IncludeOptions: types.AllIncludes,
			Pagination:     types.Pagination{Page: page, Limit: limit},
		})
		if err != nil {
			return nil, nil, err
		}
		return resp.Posts, resp.Meta, nil
	}
	refetch := func(ctx context.Context, p *types.Post) (*types.Post, error) {
		return c.GetPost(ctx, p.ID, &types.AllIncludes)
	}
	return newServerPager(c, opts, fetch, refetch, postKey, "Failed to load posts")
}

// NewProfileDirectory creates a grid over all profiles.
func (c *Client) NewProfileDirectory(opts *GridOptions) *ProfileDirectory {
	fetch := func(ctx context.Context, page, limit int) ([]*types.Profile, *types.PageMeta, error) {
		resp, err := c.ListProfilesPage(ctx, &types.ProfilesQuery{
			Pagination: types.Pagination{Page: page, Limit: limit},
		})
		if err != nil {
			return nil, nil, err
		}
		return resp.Profiles, resp.Meta, nil
	}
	refetch := func(ctx context.Context, p *types.Profile) (*types.Profile, error) {
		return c.GetProfile(ctx, p.Name, nil)
	}
	key := func(p *types.Profile) string { return p.Name }
	return newServerPager(c, opts, fetch, refetch, key, "Failed to load profiles")
}

func newServerPager[T any](c *Client, opts *GridOptions, fetch PageFetcher[T], refetch func(context.Context, *T) (*T, error), key func(*T) string, fallback string) *ServerPager[T] {
	if opts == nil {
		opts = &GridOptions{}
	}
	p := &ServerPager[T]{
		fetch:    fetch,
		refetch:  refetch,
		key:      key,
		notifier: opts.Notifier,
		fallback: fallback,
		pageSize: opts.PageSize,
	}
	if p.pageSize < 1 {
		p.pageSize = DefaultGridPageSize
	}
	if p.pageSize > maxIteratorLimit {
		p.pageSize = maxIteratorLimit
	}
	if p.notifier == nil {
		p.notifier = c.notifier
	}
	return p
}

// Load fetches page from the server. A page beyond the server's page count
// is replaced by the last page. On failure the previous page is kept and
// the result carries the error.
func (p *ServerPager[T]) Load(ctx context.Context, page int) GridPage[T] {
	if page < 1 {
		page = 1
	}
	p.mu.RLock()
	limit := p.pageSize
	p.mu.RUnlock()

	items, meta, err := p.fetch(ctx, page, limit)
	if err == nil && meta != nil && meta.PageCount > 0 && page > meta.PageCount {
		page = meta.PageCount
		items, meta, err = p.fetch(ctx, page, limit)
	}
	if err != nil {
		msg := pkgerrs.UserMessage(err, p.fallback)
		p.notifier.Notify(ctx, NoticeError, msg)

		p.mu.RLock()
		defer p.mu.RUnlock()
		out := p.current
		if !p.loaded {
			out = GridPage[T]{Items: []*T{}, Page: 1, PageSize: limit, PageCount: 1}
		}
		out.Err, out.Message = err, msg
		return out
	}

	if items == nil {
		items = []*T{}
	}
	out := buildGridPage(items, meta, page, limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = out
	p.loaded = true
	return out
}

// LoadFromQuery is Load driven by "page" and "pageSize" query parameters.
func (p *ServerPager[T]) LoadFromQuery(ctx context.Context, values url.Values) GridPage[T] {
	p.mu.Lock()
	page, size := internal.ParsePageParams(values, p.pageSize)
	if size > maxIteratorLimit {
		size = maxIteratorLimit
	}
	p.pageSize = size
	p.mu.Unlock()
	return p.Load(ctx, page)
}

// Current returns the page last loaded.
func (p *ServerPager[T]) Current() GridPage[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh refetches the item with key and replaces it in the current page.
// Other items keep their identity. On failure the page is left untouched
// and the error is reported to the notifier.
func (p *ServerPager[T]) Refresh(ctx context.Context, key string) error {
	p.mu.RLock()
	var target *T
	for _, item := range p.current.Items {
		if item != nil && p.key(item) == key {
			target = item
			break
		}
	}
	p.mu.RUnlock()

	if target == nil {
		return &pkgerrs.StateError{Operation: "refresh", Message: "item " + key + " is not on the current page"}
	}

	fresh, err := p.refetch(ctx, target)
	if err == nil && fresh == nil {
		err = &pkgerrs.StateError{Operation: "refresh", Message: "server returned no item"}
	}
	if err != nil {
		p.notifier.Notify(ctx, NoticeError, pkgerrs.UserMessage(err, "Failed to refresh"))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if updated, ok := internal.ReplaceItem(p.current.Items, p.key, fresh); ok {
		p.current.Items = updated
	}
	return nil
}

func buildGridPage[T any](items []*T, meta *types.PageMeta, page, limit int) GridPage[T] {
	out := GridPage[T]{
		Items:     items,
		Meta:      meta,
		Page:      page,
		PageSize:  limit,
		PageCount: 1,
		Total:     len(items),
	}
	if meta != nil {
		if meta.CurrentPage > 0 {
			out.Page = meta.CurrentPage
		}
		if meta.PageCount > 0 {
			out.PageCount = meta.PageCount
		}
		out.Total = meta.TotalCount
		out.HasPrev = !meta.IsFirstPage && out.Page > 1
		out.HasNext = !meta.IsLastPage && out.Page < out.PageCount
		return out
	}
	out.HasPrev = page > 1
	return out
}
