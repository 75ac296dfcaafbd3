package social

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/pkg/validation"
)

const (
	pathProfiles       = "social/profiles"
	pathProfilesSearch = "social/profiles/search"
)

func profilePath(name string) string {
	return pathProfiles + "/" + pathEscape(name)
}

// GetProfile fetches a profile by name. include may be nil.
func (c *Client) GetProfile(ctx context.Context, name string, include *types.ProfileIncludeOptions) (*types.Profile, error) {
	if err := c.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}

	var query map[string]any
	if include != nil {
		query = include.Query()
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     profilePath(name),
		Method:   http.MethodGet,
		Query:    query,
		Fallback: "Failed to load profile",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Profile]("get profile", resp)
}

// ListProfiles returns one page of profiles.
func (c *Client) ListProfiles(ctx context.Context, q *types.ProfilesQuery) ([]*types.Profile, error) {
	page, err := c.ListProfilesPage(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.Profiles, nil
}

// ListProfilesPage is ListProfiles with the server's paging block.
func (c *Client) ListProfilesPage(ctx context.Context, q *types.ProfilesQuery) (*ProfilesPage, error) {
	return c.listProfiles(ctx, "list profiles", pathProfiles, q, nil)
}

// SearchProfiles returns profiles whose name or bio match query.
func (c *Client) SearchProfiles(ctx context.Context, query string, q *types.ProfilesQuery) (*ProfilesPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &pkgerrs.ConfigError{Field: "query", Message: "search query cannot be empty"}
	}
	return c.listProfiles(ctx, "search profiles", pathProfilesSearch, q, map[string]any{"q": query})
}

func (c *Client) listProfiles(ctx context.Context, op, path string, q *types.ProfilesQuery, extra map[string]any) (*ProfilesPage, error) {
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
		Fallback: "Failed to load profiles",
	})
	if err != nil {
		return nil, err
	}
	return &ProfilesPage{
		Profiles: decodeList[types.Profile](ctx, c.logger, op, resp),
		Meta:     resp.Meta,
	}, nil
}

// UpdateProfile changes bio, avatar or banner of the named profile. Only
// non-nil fields are sent.
func (c *Client) UpdateProfile(ctx context.Context, name string, in *types.ProfileInput) (*types.Profile, error) {
	if err := c.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateProfileInput(in); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "profile", Message: err.Error()}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     profilePath(name),
		Method:   http.MethodPut,
		Body:     in,
		Fallback: "Failed to update profile",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Profile]("update profile", resp)
}

// ListProfilePosts returns one page of the posts written by name, in the
// order the server pages them.
func (c *Client) ListProfilePosts(ctx context.Context, name string, q *types.PostsQuery) ([]*types.Post, error) {
	page, err := c.ListProfilePostsPage(ctx, name, q)
	if err != nil {
		return nil, err
	}
	return page.Posts, nil
}

// ListProfilePostsPage is ListProfilePosts with the server's paging block.
func (c *Client) ListProfilePostsPage(ctx context.Context, name string, q *types.PostsQuery) (*PostsPage, error) {
	if err := c.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}
	return c.listPosts(ctx, "list profile posts", profilePath(name)+"/posts", q, nil, false)
}

// FollowProfile makes the current user follow name.
func (c *Client) FollowProfile(ctx context.Context, name string) (*types.FollowResult, error) {
	return c.follow(ctx, "follow", name)
}

// UnfollowProfile makes the current user stop following name.
func (c *Client) UnfollowProfile(ctx context.Context, name string) (*types.FollowResult, error) {
	return c.follow(ctx, "unfollow", name)
}

func (c *Client) follow(ctx context.Context, action, name string) (*types.FollowResult, error) {
	if err := c.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     profilePath(name) + "/" + action,
		Method:   http.MethodPut,
		Fallback: "Failed to " + action + " profile",
	})
	if err != nil {
		return nil, err
	}
	result, err := decodeOne[types.FollowResult](action, resp)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &types.FollowResult{}
	}
	return result, nil
}

// LoadProfileView fetches a profile (with followers and following) and one
// page of its posts concurrently. Either failure fails the whole view.
func (c *Client) LoadProfileView(ctx context.Context, name string, page, limit int) (*ProfileView, error) {
	if err := c.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}

	view := &ProfileView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := c.GetProfile(gctx, name, &types.ProfileIncludeOptions{Followers: true, Following: true})
		if err != nil {
			return err
		}
		view.Profile = profile
		return nil
	})

	g.Go(func() error {
		posts, err := c.ListProfilePostsPage(gctx, name, &types.PostsQuery{
			IncludeOptions: types.AllIncludes,
			Pagination:     types.Pagination{Page: page, Limit: limit},
		})
		if err != nil {
			return err
		}
		view.Posts = posts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
