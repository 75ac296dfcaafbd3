// Package social provides a Go client for the Noroff v2 social REST API.
//
// # Overview
//
// The package wraps the posts, profiles and auth endpoints behind typed
// methods. Every call goes through one request pipeline that joins the base
// URL, encodes query and body, attaches the bearer token and API key, parses
// JSON or text responses, strips the {data, meta} envelope and turns failed
// responses into *errors.APIError values with a message fit for users.
//
// # Features
//
//   - Typed accessors for posts, comments, reactions, profiles and follows
//   - A credential store with memory, JSON file and SQLite backends
//   - Client-side paging over a full collection (Feed) and server-side paging
//     (ProfileGrid, ProfileDirectory) with single-item refresh after mutations
//   - Generic iterators following the server's nextPage pointer
//   - Client-side rate limiting that honors Retry-After and X-RateLimit headers
//   - Structured logging via log/slog and optional Prometheus metrics
//
// # Quick Start
//
//	config := &social.Config{
//		APIKey:    os.Getenv("NOROFF_API_KEY"),
//		UserAgent: "myapp/1.0",
//	}
//
//	client, err := social.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := client.Login(ctx, "me@stud.noroff.no", "secret"); err != nil {
//		log.Fatal(errors.UserMessage(err, "Login failed"))
//	}
//
// # Connection Lifecycle
//
// NewClient does not touch the network. Persisted credentials are restored
// from the credential backend on the first call, or explicitly by Connect.
// Login overwrites the stored credentials as a whole and Logout clears them.
//
// # Common Operations
//
// List the newest posts with their authors and reactions:
//
//	posts, err := client.ListPosts(ctx, &types.PostsQuery{
//		IncludeOptions: types.AllIncludes,
//		Pagination:     types.Pagination{Limit: 20},
//	})
//
// React to a post and comment on it:
//
//	_, err = client.ReactToPost(ctx, 42, "👍")
//	_, err = client.CreateComment(ctx, 42, "Nice!", nil)
//
// # Pagination
//
// A Feed fetches the whole collection once, sorts it newest first and
// slices pages locally:
//
//	feed := client.NewFeed(&social.FeedOptions{PageSize: 10})
//	page := feed.Load(ctx, 1)
//	next := feed.Page(page.Page + 1)
//
// A ProfileGrid asks the server for one page at a time:
//
//	grid := client.NewProfileGrid("alice", nil)
//	page := grid.Load(ctx, 3)
//
// Mutations made through Feed.React and Feed.Comment refetch only the
// affected post; every other cached post keeps its identity.
//
// # Error Handling
//
//	_, err := client.GetPost(ctx, 42, nil)
//	var apiErr *errors.APIError
//	switch {
//	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
//		// token expired or missing
//	case err != nil:
//		fmt.Println(errors.UserMessage(err, "Failed to load post"))
//	}
//
// No call is retried. Each call returns its payload or exactly one error.
package social
