package social_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	social "github.com/jamesprial/go-noroff-social"
	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/test_generators"
)

func comment(id int, replyTo *int, owner string, minute int) *types.Comment {
	return &types.Comment{
		ID:        id,
		ReplyToID: replyTo,
		Owner:     owner,
		Body:      "c",
		Created:   types.NewTimestamp(time.Date(2024, 5, 1, 12, minute, 0, 0, time.UTC)),
	}
}

func ref(id int) *int { return &id }

func TestCommentTreeThreadsReplies(t *testing.T) {
	flat := []*types.Comment{
		comment(3, ref(1), "kari", 3),
		comment(1, nil, "ola", 1),
		comment(2, nil, "per", 2),
		comment(4, ref(3), "ola", 4),
		comment(5, ref(99), "lars", 5),
	}

	tree := social.NewCommentTree(flat)

	top := tree.GetTopLevel()
	require.Len(t, top, 3)
	assert.Equal(t, 1, top[0].ID)
	assert.Equal(t, 2, top[1].ID)
	assert.Equal(t, 5, top[2].ID, "orphans are promoted to the top level")

	require.Len(t, top[0].Replies, 1)
	assert.Equal(t, 3, top[0].Replies[0].ID)
	assert.Equal(t, 4, top[0].Replies[0].Replies[0].ID)

	assert.Equal(t, 5, tree.Count())
	assert.Equal(t, 2, tree.GetDepth())
	assert.Equal(t, []int{1, 3, 4, 2, 5}, commentIDs(tree.Flatten()))
	assert.Len(t, tree.GetByAuthor("OLA"), 2)
	assert.Equal(t, 4, tree.GetByID(4).ID)
	assert.Nil(t, tree.GetByID(42))

	for _, c := range flat {
		assert.Nil(t, c.Replies, "input comments are not modified")
	}
}

func TestCommentTreeMalformedInput(t *testing.T) {
	flat := []*types.Comment{
		nil,
		comment(1, ref(2), "a", 1),
		comment(2, ref(1), "b", 2),
		comment(3, ref(3), "c", 3),
		comment(3, nil, "dup", 4),
	}

	tree := social.NewCommentTree(flat)
	assert.Equal(t, 3, tree.Count(), "nil and duplicate entries are dropped")
	assert.NotPanics(t, func() { tree.GetDepth() })

	var names []string
	tree.Walk(func(c *types.Comment) { names = append(names, c.Owner) })
	assert.NotContains(t, names, "dup")
}

func TestCommentTreeOfPost(t *testing.T) {
	chain := test_generators.NewPostGenerator(1).GenerateReplyChain(7, 100, 4)
	post := &types.Post{ID: 7, Comments: chain}

	tree := social.CommentTreeOf(post)
	assert.Equal(t, 4, tree.Count())
	assert.Equal(t, 3, tree.GetDepth())
	assert.Len(t, tree.GetTopLevel(), 1)

	found := tree.Find(func(c *types.Comment) bool { return c.Body == "Reply level 2" })
	require.NotNil(t, found)
	assert.Equal(t, 102, found.ID)

	assert.Equal(t, 0, social.CommentTreeOf(nil).Count())
}

func commentIDs(comments []*types.Comment) []int {
	ids := make([]int, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}
