package internal

import (
	"sort"
	"strings"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// CommentTree organizes a post's flat comment list into reply threads.
type CommentTree struct {
	Comments []*types.Comment
}

// NewCommentTree builds reply threads from a flat list linked by ReplyToID.
// Input comments are copied, so the caller's slice is left untouched.
// Replies to unknown parents are promoted to the top level. Siblings are
// ordered oldest first.
func NewCommentTree(comments []*types.Comment) *CommentTree {
	nodes := make(map[int]*types.Comment, len(comments))
	ordered := make([]*types.Comment, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		node := *c
		node.Replies = nil
		nodes[c.ID] = &node
		ordered = append(ordered, &node)
	}

	sortOldestFirst(ordered)

	var roots []*types.Comment
	for _, node := range ordered {
		if node.ReplyToID != nil && *node.ReplyToID != node.ID {
			if parent, ok := nodes[*node.ReplyToID]; ok && !isAncestor(nodes, node.ID, parent) {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return &CommentTree{Comments: roots}
}

// isAncestor guards against reply cycles in malformed data.
func isAncestor(nodes map[int]*types.Comment, id int, start *types.Comment) bool {
	seen := make(map[int]bool)
	for cur := start; cur != nil; {
		if cur.ID == id {
			return true
		}
		if seen[cur.ID] || cur.ReplyToID == nil {
			return false
		}
		seen[cur.ID] = true
		cur = nodes[*cur.ReplyToID]
	}
	return false
}

func sortOldestFirst(comments []*types.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i].Created.Time, comments[j].Created.Time
		if a.Equal(b) {
			return comments[i].ID < comments[j].ID
		}
		return a.Before(b)
	})
}

// Flatten returns all comments in the tree as a flat slice, depth-first.
func (ct *CommentTree) Flatten() []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		result = append(result, c)
	})
	return result
}

// Filter returns comments that match the given filter function.
func (ct *CommentTree) Filter(filterFunc func(*types.Comment) bool) []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		if filterFunc(c) {
			result = append(result, c)
		}
	})
	return result
}

// Find returns the first comment that matches the given condition.
func (ct *CommentTree) Find(condition func(*types.Comment) bool) *types.Comment {
	return findRecursive(ct.Comments, condition)
}

func findRecursive(comments []*types.Comment, condition func(*types.Comment) bool) *types.Comment {
	for _, comment := range comments {
		if condition(comment) {
			return comment
		}
		if found := findRecursive(comment.Replies, condition); found != nil {
			return found
		}
	}
	return nil
}

// GetByID returns a comment by its ID.
func (ct *CommentTree) GetByID(id int) *types.Comment {
	return ct.Find(func(c *types.Comment) bool {
		return c.ID == id
	})
}

// GetByAuthor returns all comments by a specific author, case-insensitively.
func (ct *CommentTree) GetByAuthor(author string) []*types.Comment {
	return ct.Filter(func(c *types.Comment) bool {
		return strings.EqualFold(c.AuthorName(), author)
	})
}

// GetTopLevel returns only the top-level comments.
func (ct *CommentTree) GetTopLevel() []*types.Comment {
	return ct.Comments
}

// GetDepth returns the maximum reply depth; a tree of only top-level
// comments has depth 0.
func (ct *CommentTree) GetDepth() int {
	return depthRecursive(ct.Comments, 0)
}

func depthRecursive(comments []*types.Comment, currentDepth int) int {
	maxDepth := currentDepth
	for _, comment := range comments {
		if len(comment.Replies) > 0 {
			if depth := depthRecursive(comment.Replies, currentDepth+1); depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth
}

// Count returns the total number of comments in the tree.
func (ct *CommentTree) Count() int {
	n := 0
	ct.Walk(func(*types.Comment) { n++ })
	return n
}

// Walk applies a function to each comment in the tree, depth-first.
func (ct *CommentTree) Walk(fn func(*types.Comment)) {
	walkRecursive(ct.Comments, fn)
}

func walkRecursive(comments []*types.Comment, fn func(*types.Comment)) {
	for _, comment := range comments {
		fn(comment)
		walkRecursive(comment.Replies, fn)
	}
}
