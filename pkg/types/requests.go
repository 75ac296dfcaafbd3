package types

// Pagination captures the shared offset pagination of list endpoints.
type Pagination struct {
	// Page is 1-based. Zero leaves the server default (1).
	Page int
	// Limit is the page size. Zero leaves the server default; the API caps it at 100.
	Limit int
}

// IncludeOptions selects the related records embedded in post payloads.
type IncludeOptions struct {
	Author    bool
	Comments  bool
	Reactions bool
}

// AllIncludes embeds author, comments and reactions.
var AllIncludes = IncludeOptions{Author: true, Comments: true, Reactions: true}

// Query returns the include flags as query parameters. Flags that are off
// map to nil so they are left out of the query string.
func (o IncludeOptions) Query() map[string]any {
	return map[string]any{
		"_author":    flag(o.Author),
		"_comments":  flag(o.Comments),
		"_reactions": flag(o.Reactions),
	}
}

// PostsQuery describes a request for a list of posts.
type PostsQuery struct {
	IncludeOptions
	Pagination

	// Tag filters posts by a single tag.
	Tag string
	// Sort is the field to sort by server-side, e.g. "created".
	Sort string
	// SortOrder is "asc" or "desc".
	SortOrder string
}

// Query converts the request into query parameters.
func (q *PostsQuery) Query() map[string]any {
	if q == nil {
		return nil
	}
	out := q.IncludeOptions.Query()
	addPagination(out, q.Pagination)
	out["_tag"] = str(q.Tag)
	out["sort"] = str(q.Sort)
	out["sortOrder"] = str(q.SortOrder)
	return out
}

// ProfileIncludeOptions selects the related records embedded in profile payloads.
type ProfileIncludeOptions struct {
	Followers bool
	Following bool
	Posts     bool
}

// Query returns the include flags as query parameters.
func (o ProfileIncludeOptions) Query() map[string]any {
	return map[string]any{
		"_followers": flag(o.Followers),
		"_following": flag(o.Following),
		"_posts":     flag(o.Posts),
	}
}

// ProfilesQuery describes a request for a list of profiles.
type ProfilesQuery struct {
	ProfileIncludeOptions
	Pagination
}

// Query converts the request into query parameters.
func (q *ProfilesQuery) Query() map[string]any {
	if q == nil {
		return nil
	}
	out := q.ProfileIncludeOptions.Query()
	addPagination(out, q.Pagination)
	return out
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
	Avatar   *Media `json:"avatar,omitempty"`
	Banner   *Media `json:"banner,omitempty"`
}

// PostInput is the body for creating or updating a post.
type PostInput struct {
	Title string   `json:"title"`
	Body  string   `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Media *Media   `json:"media,omitempty"`
}

// ProfileInput is the body for updating a profile. Nil fields are not sent.
type ProfileInput struct {
	Bio    *string `json:"bio,omitempty"`
	Avatar *Media  `json:"avatar,omitempty"`
	Banner *Media  `json:"banner,omitempty"`
}

// CommentInput is the body for creating a comment.
type CommentInput struct {
	Body      string `json:"body"`
	ReplyToID *int   `json:"replyToId,omitempty"`
}

func addPagination(out map[string]any, p Pagination) {
	if p.Page > 0 {
		out["page"] = p.Page
	}
	if p.Limit > 0 {
		out["limit"] = p.Limit
	}
}

func flag(on bool) any {
	if on {
		return true
	}
	return nil
}

func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}
