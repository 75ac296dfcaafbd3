package internal

import (
	"net/url"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name                  string
		total, page, pageSize int
		want                  Window
	}{
		{"first page", 25, 1, 10, Window{Start: 0, End: 10, Page: 1, PageSize: 10, PageCount: 3}},
		{"partial last page", 25, 3, 10, Window{Start: 20, End: 25, Page: 3, PageSize: 10, PageCount: 3}},
		{"past the end clamps", 25, 10, 10, Window{Start: 20, End: 25, Page: 3, PageSize: 10, PageCount: 3}},
		{"page zero", 25, 0, 10, Window{Start: 0, End: 10, Page: 1, PageSize: 10, PageCount: 3}},
		{"empty collection", 0, 4, 10, Window{Start: 0, End: 0, Page: 1, PageSize: 10, PageCount: 1}},
		{"exact multiple", 20, 2, 10, Window{Start: 10, End: 20, Page: 2, PageSize: 10, PageCount: 2}},
		{"invalid page size", 3, 2, 0, Window{Start: 1, End: 2, Page: 2, PageSize: 1, PageCount: 3}},
		{"negative total", -5, 1, 10, Window{Start: 0, End: 0, Page: 1, PageSize: 10, PageCount: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageWindow(tt.total, tt.page, tt.pageSize); got != tt.want {
				t.Errorf("PageWindow(%d, %d, %d) = %+v, want %+v", tt.total, tt.page, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		defaultSize  int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 10, 1, 10},
		{"page and size", "page=3&pageSize=12", 10, 3, 12},
		{"limit alias", "page=2&limit=5", 10, 2, 5},
		{"pageSize wins over limit", "pageSize=7&limit=5", 10, 1, 7},
		{"invalid values", "page=abc&pageSize=x", 10, 1, 10},
		{"negative values clamp", "page=-4&pageSize=-1", 10, 1, 1},
		{"whitespace trimmed", "page=+2+", 10, 2, 10},
		{"bad default", "", 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			page, size := ParsePageParams(values, tt.defaultSize)
			if page != tt.wantPage || size != tt.wantPageSize {
				t.Errorf("ParsePageParams(%q) = (%d, %d), want (%d, %d)", tt.query, page, size, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(id int, offset time.Duration) *types.Post {
		return &types.Post{ID: id, Created: types.NewTimestamp(base.Add(offset))}
	}

	posts := []*types.Post{
		at(1, time.Hour),
		{ID: 2},
		at(3, 3*time.Hour),
		at(4, time.Hour),
		nil,
		at(5, 2*time.Hour),
	}

	SortNewestFirst(posts)

	var got []int
	for _, p := range posts {
		if p == nil {
			got = append(got, 0)
			continue
		}
		got = append(got, p.ID)
	}
	want := []int{3, 5, 1, 4, 2, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortNewestFirst order = %v, want %v", got, want)
	}
}

func TestReplaceItem(t *testing.T) {
	key := func(p *types.Post) string { return strconv.Itoa(p.ID) }
	items := []*types.Post{{ID: 1}, nil, {ID: 2}, {ID: 3}}

	updated := &types.Post{ID: 2, Title: "updated"}
	out, ok := ReplaceItem(items, key, updated)
	if !ok {
		t.Fatal("expected item to be replaced")
	}
	if out[2] != updated {
		t.Fatalf("expected replacement at index 2, got %+v", out[2])
	}
	if out[0] != items[0] || out[3] != items[3] {
		t.Fatal("other items must keep their identity")
	}
	if items[2] == updated {
		t.Fatal("input slice must not be modified")
	}

	same, ok := ReplaceItem(items, key, &types.Post{ID: 99})
	if ok {
		t.Fatal("expected no match for unknown key")
	}
	if &same[0] != &items[0] {
		t.Fatal("unchanged slice should be returned as-is")
	}
}
