package social

import (
	"github.com/jamesprial/go-noroff-social/internal"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// CommentTree provides utility methods for working with the replies of a post.
type CommentTree interface {
	Flatten() []*types.Comment
	Filter(func(*types.Comment) bool) []*types.Comment
	Find(func(*types.Comment) bool) *types.Comment
	GetByID(int) *types.Comment
	GetByAuthor(string) []*types.Comment
	GetTopLevel() []*types.Comment
	GetDepth() int
	Count() int
	Walk(func(*types.Comment))
}

// NewCommentTree builds a reply tree from a flat slice of comments linked by
// replyToId. The input is not modified.
func NewCommentTree(comments []*types.Comment) CommentTree {
	return internal.NewCommentTree(comments)
}

// CommentTreeOf builds the reply tree for a post's comments.
func CommentTreeOf(post *types.Post) CommentTree {
	if post == nil {
		return internal.NewCommentTree(nil)
	}
	return internal.NewCommentTree(post.Comments)
}
