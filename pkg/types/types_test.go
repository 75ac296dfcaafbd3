package types

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
		want     time.Time
	}{
		{"rfc3339 millis", `"2024-05-01T12:30:00.123Z"`, false, time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)},
		{"rfc3339", `"2024-05-01T12:30:00Z"`, false, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"no zone", `"2024-05-01T12:30:00"`, false, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"space separated", `"2024-05-01 12:30:00"`, false, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"date only", `"2024-05-01"`, false, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"unix seconds", `1714566600`, false, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"null", `null`, true, time.Time{}},
		{"empty string", `""`, true, time.Time{}},
		{"garbage string", `"yesterday"`, true, time.Time{}},
		{"boolean", `true`, true, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Timestamp.UnmarshalJSON() error = %v", err)
			}
			if tt.wantZero {
				if !ts.IsZero() {
					t.Errorf("expected zero time, got %v", ts.Time)
				}
				return
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_MissingFieldSortsOldest(t *testing.T) {
	var withDate, withoutDate Post
	if err := json.Unmarshal([]byte(`{"id":1,"created":"2020-01-01T00:00:00Z"}`), &withDate); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"id":2}`), &withoutDate); err != nil {
		t.Fatal(err)
	}
	if !withDate.Created.After(withoutDate.Created.Time) {
		t.Error("a post without a created date must compare as older")
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "null" {
		t.Errorf("zero timestamp marshaled to %s, want null", out)
	}

	ts := NewTimestamp(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	out, err = json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2024-05-01T12:30:00Z"` {
		t.Errorf("timestamp marshaled to %s", out)
	}

	var back Timestamp
	if err := json.Unmarshal(out, &back); err != nil || !back.Equal(ts.Time) {
		t.Errorf("round trip lost the value: %v (%v)", back.Time, err)
	}
}

func TestPostsQuery_Query(t *testing.T) {
	var nilQuery *PostsQuery
	if nilQuery.Query() != nil {
		t.Error("nil query should produce nil parameters")
	}

	q := &PostsQuery{
		IncludeOptions: IncludeOptions{Author: true, Reactions: true},
		Pagination:     Pagination{Page: 2, Limit: 10},
		Tag:            "go",
	}
	got := q.Query()

	want := map[string]any{
		"_author":    true,
		"_comments":  nil,
		"_reactions": true,
		"page":       2,
		"limit":      10,
		"_tag":       "go",
		"sort":       nil,
		"sortOrder":  nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PostsQuery.Query() = %#v, want %#v", got, want)
	}

	if _, ok := (&PostsQuery{}).Query()["page"]; ok {
		t.Error("zero page should be left out")
	}
}

func TestProfilesQuery_Query(t *testing.T) {
	q := &ProfilesQuery{
		ProfileIncludeOptions: ProfileIncludeOptions{Followers: true},
		Pagination:            Pagination{Limit: 5},
	}
	got := q.Query()
	if got["_followers"] != true || got["_following"] != nil || got["_posts"] != nil {
		t.Errorf("unexpected include flags: %#v", got)
	}
	if got["limit"] != 5 {
		t.Errorf("expected limit 5, got %#v", got["limit"])
	}
}

func TestProfileInput_OmitsNilFields(t *testing.T) {
	bio := ""
	out, err := json.Marshal(ProfileInput{Bio: &bio})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"bio":""}` {
		t.Errorf("ProfileInput marshaled to %s", out)
	}

	out, err = json.Marshal(ProfileInput{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{}` {
		t.Errorf("empty ProfileInput marshaled to %s", out)
	}
}

func TestPost_Reactions(t *testing.T) {
	p := &Post{Reactions: []*Reaction{
		nil,
		{Symbol: "👍", Count: 3, Reactors: []string{"ola", "Kari"}},
		{Symbol: "❤️", Count: 1, Reactors: []string{"per"}},
	}}

	if got := p.ReactionCount("👍"); got != 3 {
		t.Errorf("ReactionCount(👍) = %d, want 3", got)
	}
	if got := p.ReactionCount("😂"); got != 0 {
		t.Errorf("ReactionCount(😂) = %d, want 0", got)
	}
	if !p.HasReacted("👍", "kari") {
		t.Error("expected case-insensitive reactor match")
	}
	if p.HasReacted("❤️", "ola") {
		t.Error("ola did not react with ❤️")
	}
	if p.HasReacted("👍", "") {
		t.Error("empty name never matches")
	}

	var nilPost *Post
	if nilPost.ReactionCount("👍") != 0 || nilPost.HasReacted("👍", "ola") || nilPost.AuthorName() != "" {
		t.Error("nil post helpers should return zero values")
	}
}

func TestComment_AuthorName(t *testing.T) {
	c := &Comment{Owner: "owner_name"}
	if got := c.AuthorName(); got != "owner_name" {
		t.Errorf("AuthorName() = %q, want owner fallback", got)
	}
	c.Author = &ProfileSummary{Name: "author_name"}
	if got := c.AuthorName(); got != "author_name" {
		t.Errorf("AuthorName() = %q, want author", got)
	}
}

func TestProfile_Followers(t *testing.T) {
	p := &Profile{Followers: []ProfileSummary{{Name: "ola"}, {Name: "Kari"}}}
	if got := p.FollowerCount(); got != 2 {
		t.Errorf("FollowerCount() = %d, want 2", got)
	}
	p.Count = &ProfileCount{Followers: 40}
	if got := p.FollowerCount(); got != 40 {
		t.Errorf("FollowerCount() = %d, want server count 40", got)
	}
	if !p.IsFollowedBy("KARI") {
		t.Error("expected case-insensitive follower match")
	}
	if p.IsFollowedBy("per") {
		t.Error("per is not a follower")
	}

	var nilProfile *Profile
	if nilProfile.FollowerCount() != 0 || nilProfile.IsFollowedBy("ola") {
		t.Error("nil profile helpers should return zero values")
	}
}

func TestCredential_IsAuthenticated(t *testing.T) {
	if (Credential{APIKey: "k"}).IsAuthenticated() {
		t.Error("an API key alone is not a session")
	}
	if !(Credential{Token: "t"}).IsAuthenticated() {
		t.Error("a token is a session")
	}
}

func TestPageMeta_Decode(t *testing.T) {
	var meta PageMeta
	raw := `{"isFirstPage":true,"isLastPage":false,"currentPage":1,"previousPage":null,"nextPage":2,"pageCount":3,"totalCount":25}`
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.PreviousPage != nil {
		t.Error("expected null previousPage to stay nil")
	}
	if meta.NextPage == nil || *meta.NextPage != 2 {
		t.Errorf("unexpected nextPage: %v", meta.NextPage)
	}
	if meta.TotalCount != 25 || meta.PageCount != 3 || !meta.IsFirstPage {
		t.Errorf("unexpected meta: %+v", meta)
	}
}
