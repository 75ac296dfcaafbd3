package social

import (
	"context"
	"net/http"
	"strings"

	"github.com/jamesprial/go-noroff-social/internal"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/pkg/validation"
)

const (
	pathPosts          = "social/posts"
	pathPostsFollowing = "social/posts/following"
	pathPostsSearch    = "social/posts/search"
)

func postPath(id int) string {
	return pathPosts + "/" + itoa(id)
}

func reactionPath(id int, symbol string) string {
	return postPath(id) + "/react/" + pathEscape(symbol)
}

func commentPath(postID int) string {
	return postPath(postID) + "/comment"
}

// ListPosts returns one page of posts. It never returns a nil slice on
// success; a payload that is not a list yields an empty slice.
func (c *Client) ListPosts(ctx context.Context, q *types.PostsQuery) ([]*types.Post, error) {
	page, err := c.ListPostsPage(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.Posts, nil
}

// ListPostsPage is ListPosts with the server's paging block.
func (c *Client) ListPostsPage(ctx context.Context, q *types.PostsQuery) (*PostsPage, error) {
	return c.listPosts(ctx, "list posts", pathPosts, q, nil, true)
}

// ListFollowingPosts returns posts from profiles the current user follows.
func (c *Client) ListFollowingPosts(ctx context.Context, q *types.PostsQuery) (*PostsPage, error) {
	return c.listPosts(ctx, "list following posts", pathPostsFollowing, q, nil, true)
}

// SearchPosts returns posts whose title or body match query.
func (c *Client) SearchPosts(ctx context.Context, query string, q *types.PostsQuery) (*PostsPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &pkgerrs.ConfigError{Field: "query", Message: "search query cannot be empty"}
	}
	return c.listPosts(ctx, "search posts", pathPostsSearch, q, map[string]any{"q": query}, true)
}

// ListAllPosts follows the server's pagination until the last page and
// returns every post.
func (c *Client) ListAllPosts(ctx context.Context, q *types.PostsQuery) ([]*types.Post, error) {
	return c.NewPostsIterator(ctx, q).Collect(0)
}

// listPosts fetches one page of posts. With newestFirst set and no explicit
// server sort, the page is re-sorted newest first on the client.
func (c *Client) listPosts(ctx context.Context, op, path string, q *types.PostsQuery, extra map[string]any, newestFirst bool) (*PostsPage, error) {
	if q != nil {
		if err := c.validator.ValidatePagination(&q.Pagination); err != nil {
			return nil, err
		}
	}

	query := q.Query()
	if len(extra) > 0 {
		if query == nil {
			query = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			query[k] = v
		}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     path,
		Method:   http.MethodGet,
		Query:    query,
		Fallback: "Failed to load posts",
	})
	if err != nil {
		return nil, err
	}
	posts := decodeList[types.Post](ctx, c.logger, op, resp)
	if newestFirst && (q == nil || q.Sort == "") {
		internal.SortNewestFirst(posts)
	}
	return &PostsPage{Posts: posts, Meta: resp.Meta}, nil
}

// GetPost fetches a single post. include may be nil.
func (c *Client) GetPost(ctx context.Context, id int, include *types.IncludeOptions) (*types.Post, error) {
	if err := c.validator.ValidatePostID("id", id); err != nil {
		return nil, err
	}

	var query map[string]any
	if include != nil {
		query = include.Query()
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     postPath(id),
		Method:   http.MethodGet,
		Query:    query,
		Fallback: "Failed to load post",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Post]("get post", resp)
}

// CreatePost publishes a new post as the current user.
func (c *Client) CreatePost(ctx context.Context, in *types.PostInput) (*types.Post, error) {
	if err := validation.ValidatePostInput(in); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "post", Message: err.Error()}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     pathPosts,
		Method:   http.MethodPost,
		Body:     in,
		Fallback: "Failed to create post",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Post]("create post", resp)
}

// UpdatePost replaces the editable fields of a post.
func (c *Client) UpdatePost(ctx context.Context, id int, in *types.PostInput) (*types.Post, error) {
	if err := c.validator.ValidatePostID("id", id); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostInput(in); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "post", Message: err.Error()}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     postPath(id),
		Method:   http.MethodPut,
		Body:     in,
		Fallback: "Failed to update post",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Post]("update post", resp)
}

// DeletePost removes a post. Any 2xx answer, including 204 with no body,
// reports true.
func (c *Client) DeletePost(ctx context.Context, id int) (bool, error) {
	if err := c.validator.ValidatePostID("id", id); err != nil {
		return false, err
	}
	_, err := c.do(ctx, RequestSpec{
		Path:     postPath(id),
		Method:   http.MethodDelete,
		Fallback: "Failed to delete post",
	})
	return err == nil, err
}

// ReactToPost adds the current user's reaction with symbol.
func (c *Client) ReactToPost(ctx context.Context, id int, symbol string) (*types.ReactionResult, error) {
	return c.react(ctx, "react to post", http.MethodPut, id, symbol)
}

// UnreactToPost removes the current user's reaction with symbol.
func (c *Client) UnreactToPost(ctx context.Context, id int, symbol string) (*types.ReactionResult, error) {
	return c.react(ctx, "unreact to post", http.MethodDelete, id, symbol)
}

func (c *Client) react(ctx context.Context, op, method string, id int, symbol string) (*types.ReactionResult, error) {
	if err := c.validator.ValidatePostID("id", id); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     reactionPath(id, symbol),
		Method:   method,
		Fallback: "Failed to update reaction",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.ReactionResult](op, resp)
}

// CreateComment adds a comment to a post, optionally as a reply to another
// comment. It fails fast with *errors.NotAuthenticatedError when no token
// is held, without contacting the server.
func (c *Client) CreateComment(ctx context.Context, postID int, body string, replyToID *int) (*types.Comment, error) {
	if err := c.requireToken(ctx, "comment"); err != nil {
		return nil, err
	}
	if err := c.validator.ValidatePostID("postID", postID); err != nil {
		return nil, err
	}
	if replyToID != nil {
		if err := c.validator.ValidatePostID("replyToID", *replyToID); err != nil {
			return nil, err
		}
	}
	body = strings.TrimSpace(body)
	if err := validation.ValidateComment(body); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "body", Message: err.Error()}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     commentPath(postID),
		Method:   http.MethodPost,
		Body:     types.CommentInput{Body: body, ReplyToID: replyToID},
		Fallback: "Failed to add comment",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Comment]("create comment", resp)
}

// DeleteComment removes one of the current user's comments.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID int) (bool, error) {
	if err := c.validator.ValidatePostID("postID", postID); err != nil {
		return false, err
	}
	if err := c.validator.ValidatePostID("commentID", commentID); err != nil {
		return false, err
	}
	_, err := c.do(ctx, RequestSpec{
		Path:     commentPath(postID) + "/" + itoa(commentID),
		Method:   http.MethodDelete,
		Fallback: "Failed to delete comment",
	})
	return err == nil, err
}
