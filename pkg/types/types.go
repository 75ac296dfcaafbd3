package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a creation/update time as sent by the API.
// Missing, null, or unparsable values decode to the zero time, which sorts
// as the oldest possible item.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// UnmarshalJSON implements json.Unmarshaler to accept RFC 3339 strings,
// bare dates, and unix seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		return nil
	}

	// Unix seconds.
	if s[0] != '"' {
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			t.Time = time.Unix(0, int64(secs*float64(time.Second))).UTC()
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil
	}
	str = strings.TrimSpace(str)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(tm time.Time) Timestamp {
	return Timestamp{Time: tm}
}

// Media is an image reference attached to posts and profiles.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ProfileSummary is the short profile shape embedded in posts, comments and
// follower lists.
type ProfileSummary struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Avatar *Media `json:"avatar,omitempty"`
	Banner *Media `json:"banner,omitempty"`
}

// Reaction is the aggregated count of one symbol on a post.
type Reaction struct {
	Symbol   string   `json:"symbol"`
	Count    int      `json:"count"`
	Reactors []string `json:"reactors,omitempty"`
}

// Comment is a comment on a post. ReplyToID links replies to their parent.
type Comment struct {
	ID        int             `json:"id"`
	Body      string          `json:"body"`
	ReplyToID *int            `json:"replyToId"`
	PostID    int             `json:"postId"`
	Owner     string          `json:"owner"`
	Created   Timestamp       `json:"created"`
	Author    *ProfileSummary `json:"author,omitempty"`

	// Replies is filled in by the comment tree, never by the API.
	Replies []*Comment `json:"-"`
}

// AuthorName returns the author's name, falling back to the owner field.
func (c *Comment) AuthorName() string {
	if c.Author != nil && c.Author.Name != "" {
		return c.Author.Name
	}
	return c.Owner
}

// PostCount mirrors the API's _count object on posts.
type PostCount struct {
	Comments  int `json:"comments"`
	Reactions int `json:"reactions"`
}

// Post is a social post.
type Post struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Media     *Media          `json:"media,omitempty"`
	Created   Timestamp       `json:"created"`
	Updated   Timestamp       `json:"updated"`
	Author    *ProfileSummary `json:"author,omitempty"`
	Comments  []*Comment      `json:"comments,omitempty"`
	Reactions []*Reaction     `json:"reactions,omitempty"`
	Count     *PostCount      `json:"_count,omitempty"`
}

// AuthorName returns the author's name or "" when the author was not included.
func (p *Post) AuthorName() string {
	if p == nil || p.Author == nil {
		return ""
	}
	return p.Author.Name
}

// ReactionCount returns the count for symbol, or 0.
func (p *Post) ReactionCount(symbol string) int {
	if p == nil {
		return 0
	}
	for _, r := range p.Reactions {
		if r != nil && r.Symbol == symbol {
			return r.Count
		}
	}
	return 0
}

// HasReacted reports whether name is listed among the reactors of symbol.
// Names are compared case-insensitively.
func (p *Post) HasReacted(symbol, name string) bool {
	if p == nil || name == "" {
		return false
	}
	for _, r := range p.Reactions {
		if r == nil || r.Symbol != symbol {
			continue
		}
		for _, reactor := range r.Reactors {
			if strings.EqualFold(reactor, name) {
				return true
			}
		}
	}
	return false
}

// ProfileCount mirrors the API's _count object on profiles.
type ProfileCount struct {
	Posts     int `json:"posts"`
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// Profile is a user profile.
type Profile struct {
	Name      string           `json:"name"`
	Email     string           `json:"email,omitempty"`
	Bio       string           `json:"bio,omitempty"`
	Avatar    *Media           `json:"avatar,omitempty"`
	Banner    *Media           `json:"banner,omitempty"`
	Followers []ProfileSummary `json:"followers,omitempty"`
	Following []ProfileSummary `json:"following,omitempty"`
	Posts     []*Post          `json:"posts,omitempty"`
	Count     *ProfileCount    `json:"_count,omitempty"`
}

// FollowerCount prefers the server's count and falls back to the embedded list.
func (p *Profile) FollowerCount() int {
	if p == nil {
		return 0
	}
	if p.Count != nil {
		return p.Count.Followers
	}
	return len(p.Followers)
}

// IsFollowedBy reports whether name appears among the profile's followers.
func (p *Profile) IsFollowedBy(name string) bool {
	if p == nil || name == "" {
		return false
	}
	for _, f := range p.Followers {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// PageMeta is the pagination block the API sends alongside list payloads.
type PageMeta struct {
	CurrentPage  int  `json:"currentPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
}

// Credential is the authentication state held by the credential store.
type Credential struct {
	Token       string
	APIKey      string
	DisplayName string
}

// IsAuthenticated reports whether a token is present.
func (c Credential) IsAuthenticated() bool {
	return c.Token != ""
}

// LoginResult is the unwrapped payload of a successful login.
type LoginResult struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Bio         string `json:"bio,omitempty"`
	Avatar      *Media `json:"avatar,omitempty"`
	Banner      *Media `json:"banner,omitempty"`
	AccessToken string `json:"accessToken"`
}

// APIKeyResult is the payload of the create-api-key endpoint.
type APIKeyResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Key    string `json:"key"`
}

// ReactionResult is returned when a reaction is added or removed.
type ReactionResult struct {
	PostID    int         `json:"postId"`
	Symbol    string      `json:"symbol"`
	Reactions []*Reaction `json:"reactions"`
}

// FollowResult is returned by follow and unfollow.
type FollowResult struct {
	Followers []ProfileSummary `json:"followers"`
	Following []ProfileSummary `json:"following"`
}
