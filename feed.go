package social

import (
	"context"
	"net/url"
	"sync"

	"github.com/jamesprial/go-noroff-social/internal"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// DefaultFeedPageSize is the number of posts per Feed page.
const DefaultFeedPageSize = 10

// FeedSource loads the complete collection a Feed pages through.
type FeedSource func(ctx context.Context) ([]*types.Post, error)

// FeedOptions configures a Feed. The zero value is usable.
type FeedOptions struct {
	// PageSize defaults to DefaultFeedPageSize.
	PageSize int
	// Source defaults to every post with author, comments and reactions.
	Source FeedSource
	// Notifier defaults to the client's notifier.
	Notifier Notifier
}

// FeedPage is what a Feed renders for one page. When Err is set, Message
// holds the text to show and Items the previously loaded posts, if any.
type FeedPage struct {
	Items     []*types.Post
	Page      int
	PageSize  int
	PageCount int
	Total     int
	HasPrev   bool
	HasNext   bool

	Err     error
	Message string
}

type reactionKey struct {
	postID int
	symbol string
}

// Feed pages through a collection fetched once and sorted newest first.
// Changing pages never refetches; mutations refetch only the affected post.
// A Feed is safe for concurrent use.
type Feed struct {
	client   *Client
	source   FeedSource
	notifier Notifier

	mu       sync.RWMutex
	posts    []*types.Post
	loaded   bool
	page     int
	pageSize int
	reacted  map[reactionKey]bool
}

// NewFeed creates a Feed. Call Load before paging.
func (c *Client) NewFeed(opts *FeedOptions) *Feed {
	if opts == nil {
		opts = &FeedOptions{}
	}
	f := &Feed{
		client:   c,
		source:   opts.Source,
		notifier: opts.Notifier,
		page:     1,
		pageSize: opts.PageSize,
		reacted:  make(map[reactionKey]bool),
	}
	if f.pageSize < 1 {
		f.pageSize = DefaultFeedPageSize
	}
	if f.notifier == nil {
		f.notifier = c.notifier
	}
	if f.source == nil {
		f.source = func(ctx context.Context) ([]*types.Post, error) {
			return c.ListAllPosts(ctx, &types.PostsQuery{IncludeOptions: types.AllIncludes})
		}
	}
	return f
}

// Load fetches the whole collection and returns the requested page. On
// failure the previous items are kept and the page carries the error.
func (f *Feed) Load(ctx context.Context, page int) FeedPage {
	posts, err := f.source(ctx)
	if err != nil {
		msg := pkgerrs.UserMessage(err, "Failed to load posts")
		f.notifier.Notify(ctx, NoticeError, msg)

		f.mu.Lock()
		defer f.mu.Unlock()
		out := f.pageLocked(page)
		out.Err, out.Message = err, msg
		return out
	}

	sorted := make([]*types.Post, 0, len(posts))
	for _, p := range posts {
		if p != nil {
			sorted = append(sorted, p)
		}
	}
	internal.SortNewestFirst(sorted)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = sorted
	f.loaded = true
	f.reacted = make(map[reactionKey]bool)
	return f.pageLocked(page)
}

// LoadFromQuery is Load driven by "page" and "pageSize" query parameters.
// A valid pageSize replaces the Feed's page size.
func (f *Feed) LoadFromQuery(ctx context.Context, values url.Values) FeedPage {
	page := f.applyQuery(values)
	return f.Load(ctx, page)
}

// Page returns a page of the cached collection without refetching.
func (f *Feed) Page(page int) FeedPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		err := &pkgerrs.StateError{Operation: "feed page", Message: "feed has not been loaded"}
		return FeedPage{Page: 1, PageSize: f.pageSize, PageCount: 1, Err: err, Message: "Posts are not loaded yet."}
	}
	return f.pageLocked(page)
}

// PageFromQuery is Page driven by "page" and "pageSize" query parameters.
func (f *Feed) PageFromQuery(values url.Values) FeedPage {
	return f.Page(f.applyQuery(values))
}

// Current returns the page last shown.
func (f *Feed) Current() FeedPage {
	f.mu.RLock()
	page := f.page
	f.mu.RUnlock()
	return f.Page(page)
}

// Posts returns the cached collection, newest first.
func (f *Feed) Posts() []*types.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*types.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Post returns the cached post with id, or nil.
func (f *Feed) Post(id int) *types.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *Feed) applyQuery(values url.Values) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, size := internal.ParsePageParams(values, f.pageSize)
	f.pageSize = size
	return page
}

func (f *Feed) pageLocked(page int) FeedPage {
	w := internal.PageWindow(len(f.posts), page, f.pageSize)
	f.page = w.Page

	items := make([]*types.Post, w.End-w.Start)
	copy(items, f.posts[w.Start:w.End])

	return FeedPage{
		Items:     items,
		Page:      w.Page,
		PageSize:  w.PageSize,
		PageCount: w.PageCount,
		Total:     len(f.posts),
		HasPrev:   w.Page > 1,
		HasNext:   w.Page < w.PageCount,
	}
}

// Refresh refetches one post and replaces it in place. Other posts keep
// their identity and the current page is unchanged. On failure the cache
// is left untouched and the error is reported to the notifier.
func (f *Feed) Refresh(ctx context.Context, id int) error {
	post, err := f.client.GetPost(ctx, id, &types.AllIncludes)
	if err == nil && post == nil {
		err = &pkgerrs.StateError{Operation: "refresh post", Message: "server returned no post"}
	}
	if err != nil {
		f.notifier.Notify(ctx, NoticeError, pkgerrs.UserMessage(err, "Failed to refresh post"))
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	updated, ok := internal.ReplaceItem(f.posts, postKey, post)
	if !ok {
		return &pkgerrs.StateError{Operation: "refresh post", Message: "post " + itoa(id) + " is not in the feed"}
	}
	f.posts = updated
	return nil
}

// React adds (or, with remove, removes) the current user's reaction and
// refreshes the post. The caller decides the direction; see HasReacted.
func (f *Feed) React(ctx context.Context, id int, symbol string, remove bool) error {
	var err error
	if remove {
		_, err = f.client.UnreactToPost(ctx, id, symbol)
	} else {
		_, err = f.client.ReactToPost(ctx, id, symbol)
	}
	if err != nil {
		f.notifier.Notify(ctx, NoticeError, pkgerrs.UserMessage(err, "Failed to update reaction"))
		return err
	}

	f.mu.Lock()
	f.reacted[reactionKey{id, symbol}] = !remove
	f.mu.Unlock()

	return f.Refresh(ctx, id)
}

// ToggleReaction reacts when the current user has not reacted with symbol
// yet, and removes the reaction otherwise.
func (f *Feed) ToggleReaction(ctx context.Context, id int, symbol string) error {
	return f.React(ctx, id, symbol, f.HasReacted(id, symbol))
}

// HasReacted reports whether the current user has reacted to post id with
// symbol. Reactions made through this Feed win over the server's list.
func (f *Feed) HasReacted(id int, symbol string) bool {
	f.mu.RLock()
	reacted, known := f.reacted[reactionKey{id, symbol}]
	f.mu.RUnlock()
	if known {
		return reacted
	}
	return f.Post(id).HasReacted(symbol, f.client.Credentials().DisplayName)
}

// Comment adds a comment to post id and refreshes the post.
func (f *Feed) Comment(ctx context.Context, id int, body string, replyToID *int) (*types.Comment, error) {
	comment, err := f.client.CreateComment(ctx, id, body, replyToID)
	if err != nil {
		f.notifier.Notify(ctx, NoticeError, pkgerrs.UserMessage(err, "Failed to add comment"))
		return nil, err
	}
	f.notifier.Notify(ctx, NoticeSuccess, "Comment added.")

	if err := f.Refresh(ctx, id); err != nil {
		return comment, err
	}
	return comment, nil
}

func postKey(p *types.Post) string {
	return itoa(p.ID)
}
