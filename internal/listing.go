package internal

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// SortNewestFirst orders posts strictly descending by creation time.
// Posts without a timestamp have the zero time and end up last. The sort is
// stable so equal timestamps keep the server's order.
func SortNewestFirst(posts []*types.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return createdOf(posts[i]).After(createdOf(posts[j]).Time)
	})
}

func createdOf(p *types.Post) types.Timestamp {
	if p == nil {
		return types.Timestamp{}
	}
	return p.Created
}

// Window is the slice of a collection shown on one page.
type Window struct {
	Start     int
	End       int
	Page      int
	PageSize  int
	PageCount int
}

// PageWindow computes the bounds of page within total items. pageSize and
// page are clamped to at least 1 and page is clamped down to the last page,
// so a request past the end shows the last page instead of nothing.
func PageWindow(total, page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}

	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}

	return Window{Start: start, End: end, Page: page, PageSize: pageSize, PageCount: pageCount}
}

// ParsePageParams reads "page" and "pageSize" (or "limit") from query
// values. Missing or invalid values fall back to page 1 and defaultSize;
// both are clamped to at least 1.
func ParsePageParams(values url.Values, defaultSize int) (page, pageSize int) {
	if defaultSize < 1 {
		defaultSize = 1
	}
	page = intParam(values, 1, "page")
	pageSize = intParam(values, defaultSize, "pageSize", "limit")
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return page, pageSize
}

func intParam(values url.Values, def int, keys ...string) int {
	for _, key := range keys {
		raw := strings.TrimSpace(values.Get(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return n
	}
	return def
}

// ReplaceItem returns a copy of items with the element whose key matches
// replaced by item. Every other element keeps its identity. The boolean is
// false when no element matched, in which case items is returned unchanged.
func ReplaceItem[T any](items []*T, key func(*T) string, item *T) ([]*T, bool) {
	want := key(item)
	for i, existing := range items {
		if existing == nil || key(existing) != want {
			continue
		}
		out := make([]*T, len(items))
		copy(out, items)
		out[i] = item
		return out, true
	}
	return items, false
}
