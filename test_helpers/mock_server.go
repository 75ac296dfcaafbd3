package test_helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// MockServer is an in-memory stand-in for the Noroff social API. It keeps
// users, posts and profiles in memory, answers with the same {data, meta}
// envelope the real API uses and logs every request.
type MockServer struct {
	server *httptest.Server

	mu            sync.Mutex
	users         map[string]*mockUser // by email
	tokens        map[string]string    // token -> profile name
	profiles      map[string]*types.Profile
	posts         []*types.Post
	nextPostID    int
	nextCommentID int
	nextKeyID     int
	apiKey        string
	overrides     map[string]*MockResponse
	requestLog    []RequestEntry
}

type mockUser struct {
	email    string
	password string
	name     string
}

// RequestEntry is one logged request.
type RequestEntry struct {
	Method       string
	Path         string
	Query        url.Values
	Headers      http.Header
	Body         string
	Timestamp    time.Time
	ResponseCode int
}

// MockResponse is a canned answer that replaces the normal handler for one
// method and path.
type MockResponse struct {
	Status      int
	Body        string
	ContentType string
	Headers     map[string]string
	// MaxCalls limits how many times the response is served. 0 = unlimited.
	MaxCalls  int
	callCount int
}

// NewMockServer starts a mock server with no data.
func NewMockServer() *MockServer {
	ms := &MockServer{
		users:         make(map[string]*mockUser),
		tokens:        make(map[string]string),
		profiles:      make(map[string]*types.Profile),
		nextPostID:    1,
		nextCommentID: 1,
		overrides:     make(map[string]*MockResponse),
	}
	ms.server = httptest.NewServer(ms.routes())
	return ms
}

// URL returns the base URL of the mock server.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts down the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// RequireAPIKey makes every social endpoint reject requests without key.
func (ms *MockServer) RequireAPIKey(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.apiKey = key
}

// AddUser registers an account and its profile.
func (ms *MockServer) AddUser(email, password, name string) *types.Profile {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.addUserLocked(email, password, name)
}

func (ms *MockServer) addUserLocked(email, password, name string) *types.Profile {
	ms.users[strings.ToLower(email)] = &mockUser{email: email, password: password, name: name}
	profile := &types.Profile{Name: name, Email: email}
	ms.profiles[strings.ToLower(name)] = profile
	return profile
}

// TokenFor returns the access token the server issues for name.
func TokenFor(name string) string {
	return "token-" + name
}

// Authorize makes token valid for name without a login round trip.
func (ms *MockServer) Authorize(token, name string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.tokens[token] = name
}

// AddPost stores post. A zero ID is assigned automatically.
func (ms *MockServer) AddPost(post *types.Post) *types.Post {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if post.ID == 0 {
		post.ID = ms.nextPostID
	}
	if post.ID >= ms.nextPostID {
		ms.nextPostID = post.ID + 1
	}
	ms.posts = append(ms.posts, post)
	return post
}

// UpdatePost applies fn to the stored post with id.
func (ms *MockServer) UpdatePost(id int, fn func(*types.Post)) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if p := ms.findPostLocked(id); p != nil {
		fn(p)
		return true
	}
	return false
}

// SetResponse serves resp for method and path instead of the normal handler.
func (ms *MockServer) SetResponse(method, path string, resp *MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.overrides[method+" "+path] = resp
}

// ClearResponses removes every canned response.
func (ms *MockServer) ClearResponses() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.overrides = make(map[string]*MockResponse)
}

// Requests returns a copy of the request log.
func (ms *MockServer) Requests() []RequestEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]RequestEntry, len(ms.requestLog))
	copy(out, ms.requestLog)
	return out
}

// CallCount returns how many requests were made for method and path.
func (ms *MockServer) CallCount(method, path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	n := 0
	for _, e := range ms.requestLog {
		if e.Method == method && e.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request for method and path.
func (ms *MockServer) LastRequest(method, path string) (*RequestEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i := len(ms.requestLog) - 1; i >= 0; i-- {
		e := ms.requestLog[i]
		if e.Method == method && e.Path == path {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("no request found for %s %s", method, path)
}

// ClearLog empties the request log.
func (ms *MockServer) ClearLog() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requestLog = nil
}

func (ms *MockServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(ms.logRequests)
	r.Use(ms.cannedResponses)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", ms.handleLogin)
		r.Post("/register", ms.handleRegister)
		r.With(ms.requireAuth).Post("/create-api-key", ms.handleCreateAPIKey)
	})

	r.Route("/social", func(r chi.Router) {
		r.Use(ms.checkAPIKey)
		r.Use(ms.requireAuth)

		r.Get("/posts", ms.handleListPosts)
		r.Post("/posts", ms.handleCreatePost)
		r.Get("/posts/following", ms.handleFollowingPosts)
		r.Get("/posts/search", ms.handleSearchPosts)
		r.Get("/posts/{id}", ms.handleGetPost)
		r.Put("/posts/{id}", ms.handleUpdatePost)
		r.Delete("/posts/{id}", ms.handleDeletePost)
		r.Put("/posts/{id}/react/{symbol}", ms.handleReact(true))
		r.Delete("/posts/{id}/react/{symbol}", ms.handleReact(false))
		r.Post("/posts/{id}/comment", ms.handleComment)
		r.Delete("/posts/{id}/comment/{commentID}", ms.handleDeleteComment)

		r.Get("/profiles", ms.handleListProfiles)
		r.Get("/profiles/search", ms.handleSearchProfiles)
		r.Get("/profiles/{name}", ms.handleGetProfile)
		r.Put("/profiles/{name}", ms.handleUpdateProfile)
		r.Get("/profiles/{name}/posts", ms.handleProfilePosts)
		r.Put("/profiles/{name}/follow", ms.handleFollow(true))
		r.Put("/profiles/{name}/unfollow", ms.handleFollow(false))
	})

	return r
}

// Middleware

func (ms *MockServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		ms.mu.Lock()
		ms.requestLog = append(ms.requestLog, RequestEntry{
			Method:       r.Method,
			Path:         r.URL.Path,
			Query:        r.URL.Query(),
			Headers:      r.Header.Clone(),
			Body:         string(body),
			Timestamp:    time.Now(),
			ResponseCode: status,
		})
		ms.mu.Unlock()
	})
}

func (ms *MockServer) cannedResponses(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		resp, ok := ms.overrides[r.Method+" "+r.URL.Path]
		if ok && resp.MaxCalls > 0 && resp.callCount >= resp.MaxCalls {
			ok = false
		}
		if ok {
			resp.callCount++
		}
		ms.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		if resp.Body != "" {
			ct := resp.ContentType
			if ct == "" {
				ct = "application/json"
			}
			w.Header().Set("Content-Type", ct)
		}
		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp.Body)
	})
}

func (ms *MockServer) checkAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		want := ms.apiKey
		ms.mu.Unlock()
		if want != "" && r.Header.Get("X-Noroff-API-Key") != want {
			writeErrors(w, http.StatusUnauthorized, "No API key header was found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ms *MockServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ms.currentUser(r) == "" {
			writeErrors(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ms *MockServer) currentUser(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.tokens[strings.TrimSpace(h[7:])]
}

// Auth

func (ms *MockServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ms.mu.Lock()
	user, ok := ms.users[strings.ToLower(req.Email)]
	if !ok || user.password != req.Password {
		ms.mu.Unlock()
		writeErrors(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token := TokenFor(user.name)
	ms.tokens[token] = user.name
	ms.mu.Unlock()

	writeData(w, http.StatusOK, map[string]any{
		"name":        user.name,
		"email":       user.email,
		"accessToken": token,
	}, nil)
}

func (ms *MockServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, exists := ms.users[strings.ToLower(req.Email)]; exists {
		writeErrors(w, http.StatusBadRequest, "Profile already exists")
		return
	}
	profile := ms.addUserLocked(req.Email, req.Password, req.Name)
	profile.Bio = req.Bio
	profile.Avatar = req.Avatar
	profile.Banner = req.Banner
	writeData(w, http.StatusCreated, profile, nil)
}

func (ms *MockServer) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Name == "" {
		req.Name = "API Key"
	}

	ms.mu.Lock()
	ms.nextKeyID++
	key := fmt.Sprintf("key-%d", ms.nextKeyID)
	ms.mu.Unlock()

	writeData(w, http.StatusCreated, types.APIKeyResult{Name: req.Name, Status: "ACTIVE", Key: key}, nil)
}

// Posts

func (ms *MockServer) handleListPosts(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("_tag")
	ms.listPosts(w, r, func(p *types.Post) bool {
		return tag == "" || slices.Contains(p.Tags, tag)
	})
}

func (ms *MockServer) handleFollowingPosts(w http.ResponseWriter, r *http.Request) {
	me := ms.currentUser(r)
	ms.mu.Lock()
	following := map[string]bool{}
	if profile := ms.profiles[strings.ToLower(me)]; profile != nil {
		for _, f := range profile.Following {
			following[strings.ToLower(f.Name)] = true
		}
	}
	ms.mu.Unlock()

	ms.listPosts(w, r, func(p *types.Post) bool {
		return following[strings.ToLower(p.AuthorName())]
	})
}

func (ms *MockServer) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	ms.listPosts(w, r, func(p *types.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Body), q)
	})
}

func (ms *MockServer) handleProfilePosts(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	ms.mu.Lock()
	_, ok := ms.profiles[strings.ToLower(name)]
	ms.mu.Unlock()
	if !ok {
		writeErrors(w, http.StatusNotFound, "No profile with this name")
		return
	}
	ms.listPosts(w, r, func(p *types.Post) bool {
		return strings.EqualFold(p.AuthorName(), name)
	})
}

func (ms *MockServer) listPosts(w http.ResponseWriter, r *http.Request, keep func(*types.Post) bool) {
	ms.mu.Lock()
	var matched []*types.Post
	for _, p := range ms.posts {
		if keep(p) {
			matched = append(matched, includePost(p, r.URL.Query()))
		}
	}
	ms.mu.Unlock()

	items, meta := paginate(matched, r.URL.Query())
	writeData(w, http.StatusOK, items, meta)
}

func (ms *MockServer) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.findPostLocked(id)
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No post with this id")
		return
	}
	writeData(w, http.StatusOK, includePost(p, r.URL.Query()), nil)
}

func (ms *MockServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in types.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeErrors(w, http.StatusBadRequest, "Title is required")
		return
	}
	me := ms.currentUser(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	now := types.NewTimestamp(time.Now())
	p := &types.Post{
		ID:      ms.nextPostID,
		Title:   in.Title,
		Body:    in.Body,
		Tags:    in.Tags,
		Media:   in.Media,
		Created: now,
		Updated: now,
		Author:  ms.summaryLocked(me),
	}
	ms.nextPostID++
	ms.posts = append(ms.posts, p)
	writeData(w, http.StatusCreated, p, nil)
}

func (ms *MockServer) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var in types.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	me := ms.currentUser(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.findPostLocked(id)
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No post with this id")
		return
	}
	if !strings.EqualFold(p.AuthorName(), me) {
		writeErrors(w, http.StatusForbidden, "You are not the owner of this post")
		return
	}
	p.Title, p.Body, p.Tags, p.Media = in.Title, in.Body, in.Tags, in.Media
	p.Updated = types.NewTimestamp(time.Now())
	writeData(w, http.StatusOK, p, nil)
}

func (ms *MockServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	me := ms.currentUser(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i, p := range ms.posts {
		if p.ID != id {
			continue
		}
		if !strings.EqualFold(p.AuthorName(), me) {
			writeErrors(w, http.StatusForbidden, "You are not the owner of this post")
			return
		}
		ms.posts = append(ms.posts[:i], ms.posts[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeErrors(w, http.StatusNotFound, "No post with this id")
}

func (ms *MockServer) handleReact(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "id")
		if !ok {
			return
		}
		symbol := urlParam(r, "symbol")
		me := ms.currentUser(r)

		ms.mu.Lock()
		defer ms.mu.Unlock()
		p := ms.findPostLocked(id)
		if p == nil {
			writeErrors(w, http.StatusNotFound, "No post with this id")
			return
		}
		if add {
			addReaction(p, symbol, me)
		} else {
			removeReaction(p, symbol, me)
		}
		writeData(w, http.StatusOK, types.ReactionResult{PostID: p.ID, Symbol: symbol, Reactions: p.Reactions}, nil)
	}
}

func (ms *MockServer) handleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var in types.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Body) == "" {
		writeErrors(w, http.StatusBadRequest, "Body is required")
		return
	}
	me := ms.currentUser(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.findPostLocked(id)
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No post with this id")
		return
	}
	c := &types.Comment{
		ID:        ms.nextCommentID,
		Body:      in.Body,
		ReplyToID: in.ReplyToID,
		PostID:    p.ID,
		Owner:     me,
		Created:   types.NewTimestamp(time.Now()),
		Author:    ms.summaryLocked(me),
	}
	ms.nextCommentID++
	p.Comments = append(p.Comments, c)
	if p.Count == nil {
		p.Count = &types.PostCount{}
	}
	p.Count.Comments = len(p.Comments)
	writeData(w, http.StatusCreated, c, nil)
}

func (ms *MockServer) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := intParam(w, r, "commentID")
	if !ok {
		return
	}
	me := ms.currentUser(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.findPostLocked(id)
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No post with this id")
		return
	}
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if !strings.EqualFold(c.Owner, me) {
			writeErrors(w, http.StatusForbidden, "You are not the owner of this comment")
			return
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeErrors(w, http.StatusNotFound, "No comment with this id")
}

// Profiles

func (ms *MockServer) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ms.listProfiles(w, r, func(*types.Profile) bool { return true })
}

func (ms *MockServer) handleSearchProfiles(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	ms.listProfiles(w, r, func(p *types.Profile) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Bio), q)
	})
}

func (ms *MockServer) listProfiles(w http.ResponseWriter, r *http.Request, keep func(*types.Profile) bool) {
	ms.mu.Lock()
	var matched []*types.Profile
	for _, p := range ms.profiles {
		if keep(p) {
			matched = append(matched, ms.includeProfileLocked(p, r.URL.Query()))
		}
	}
	ms.mu.Unlock()

	slices.SortFunc(matched, func(a, b *types.Profile) int { return strings.Compare(a.Name, b.Name) })
	items, meta := paginate(matched, r.URL.Query())
	writeData(w, http.StatusOK, items, meta)
}

func (ms *MockServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.profiles[strings.ToLower(name)]
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No profile with this name")
		return
	}
	writeData(w, http.StatusOK, ms.includeProfileLocked(p, r.URL.Query()), nil)
}

func (ms *MockServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if !strings.EqualFold(name, ms.currentUser(r)) {
		writeErrors(w, http.StatusForbidden, "You can only update your own profile")
		return
	}
	var in types.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	p := ms.profiles[strings.ToLower(name)]
	if p == nil {
		writeErrors(w, http.StatusNotFound, "No profile with this name")
		return
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Avatar != nil {
		p.Avatar = in.Avatar
	}
	if in.Banner != nil {
		p.Banner = in.Banner
	}
	writeData(w, http.StatusOK, p, nil)
}

func (ms *MockServer) handleFollow(follow bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := urlParam(r, "name")
		me := ms.currentUser(r)
		if strings.EqualFold(name, me) {
			writeErrors(w, http.StatusBadRequest, "You can't follow yourself")
			return
		}

		ms.mu.Lock()
		defer ms.mu.Unlock()
		target := ms.profiles[strings.ToLower(name)]
		self := ms.profiles[strings.ToLower(me)]
		if target == nil || self == nil {
			writeErrors(w, http.StatusNotFound, "No profile with this name")
			return
		}

		following := target.IsFollowedBy(me)
		switch {
		case follow && following:
			writeErrors(w, http.StatusBadRequest, "You are already following this profile")
			return
		case !follow && !following:
			writeErrors(w, http.StatusBadRequest, "You are not following this profile")
			return
		case follow:
			target.Followers = append(target.Followers, types.ProfileSummary{Name: self.Name, Email: self.Email})
			self.Following = append(self.Following, types.ProfileSummary{Name: target.Name, Email: target.Email})
		default:
			target.Followers = removeSummary(target.Followers, self.Name)
			self.Following = removeSummary(self.Following, target.Name)
		}
		writeData(w, http.StatusOK, types.FollowResult{Followers: target.Followers, Following: target.Following}, nil)
	}
}

// Helpers

func (ms *MockServer) findPostLocked(id int) *types.Post {
	for _, p := range ms.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (ms *MockServer) summaryLocked(name string) *types.ProfileSummary {
	if p := ms.profiles[strings.ToLower(name)]; p != nil {
		return &types.ProfileSummary{Name: p.Name, Email: p.Email, Avatar: p.Avatar}
	}
	return &types.ProfileSummary{Name: name}
}

func (ms *MockServer) includeProfileLocked(p *types.Profile, q url.Values) *types.Profile {
	out := *p
	if q.Get("_followers") != "true" {
		out.Followers = nil
	}
	if q.Get("_following") != "true" {
		out.Following = nil
	}
	out.Posts = nil
	postCount := 0
	for _, post := range ms.posts {
		if strings.EqualFold(post.AuthorName(), p.Name) {
			postCount++
			if q.Get("_posts") == "true" {
				out.Posts = append(out.Posts, post)
			}
		}
	}
	out.Count = &types.ProfileCount{Posts: postCount, Followers: len(p.Followers), Following: len(p.Following)}
	return &out
}

// includePost returns a copy of p without the relations the query did not ask for.
func includePost(p *types.Post, q url.Values) *types.Post {
	out := *p
	if q.Get("_author") != "true" {
		out.Author = nil
	}
	if q.Get("_comments") != "true" {
		out.Comments = nil
	}
	if q.Get("_reactions") != "true" {
		out.Reactions = nil
	}
	reactions := 0
	for _, r := range p.Reactions {
		reactions += r.Count
	}
	out.Count = &types.PostCount{Comments: len(p.Comments), Reactions: reactions}
	return &out
}

func addReaction(p *types.Post, symbol, name string) {
	for _, r := range p.Reactions {
		if r.Symbol != symbol {
			continue
		}
		if !slices.ContainsFunc(r.Reactors, func(s string) bool { return strings.EqualFold(s, name) }) {
			r.Reactors = append(r.Reactors, name)
			r.Count++
		}
		return
	}
	p.Reactions = append(p.Reactions, &types.Reaction{Symbol: symbol, Count: 1, Reactors: []string{name}})
}

func removeReaction(p *types.Post, symbol, name string) {
	for i, r := range p.Reactions {
		if r.Symbol != symbol {
			continue
		}
		idx := slices.IndexFunc(r.Reactors, func(s string) bool { return strings.EqualFold(s, name) })
		if idx < 0 {
			return
		}
		r.Reactors = slices.Delete(r.Reactors, idx, idx+1)
		r.Count--
		if r.Count <= 0 {
			p.Reactions = slices.Delete(p.Reactions, i, i+1)
		}
		return
	}
}

func removeSummary(list []types.ProfileSummary, name string) []types.ProfileSummary {
	return slices.DeleteFunc(list, func(s types.ProfileSummary) bool { return strings.EqualFold(s.Name, name) })
}

// paginate slices items by the page and limit query parameters and builds
// the meta block the API sends.
func paginate[T any](items []T, q url.Values) ([]T, types.PageMeta) {
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = 100
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	total := len(items)
	pageCount := (total + limit - 1) / limit
	if pageCount < 1 {
		pageCount = 1
	}

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	meta := types.PageMeta{
		CurrentPage: page,
		PageCount:   pageCount,
		TotalCount:  total,
		IsFirstPage: page == 1,
		IsLastPage:  page >= pageCount,
	}
	if page > 1 {
		prev := page - 1
		meta.PreviousPage = &prev
	}
	if page < pageCount {
		next := page + 1
		meta.NextPage = &next
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, meta
}

func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func intParam(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || n <= 0 {
		writeErrors(w, http.StatusBadRequest, key+" must be a positive number")
		return 0, false
	}
	return n, true
}

func writeData(w http.ResponseWriter, status int, data any, meta any) {
	if meta == nil {
		meta = map[string]any{}
	}
	writeJSON(w, status, map[string]any{"data": data, "meta": meta})
}

func writeErrors(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"errors":     []map[string]string{{"message": message}},
		"status":     http.StatusText(status),
		"statusCode": status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
