package test_generators

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// PostGenerator generates realistic social posts for testing.
type PostGenerator struct {
	rand    *rand.Rand
	titles  []string
	bodies  []string
	tags    []string
	authors []string
	symbols []string
	base    time.Time
}

// NewPostGenerator creates a new post generator. A zero seed picks one
// from the clock.
func NewPostGenerator(seed int64) *PostGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &PostGenerator{
		rand: rand.New(rand.NewSource(seed)),
		titles: []string{
			"Morning run by the fjord",
			"First week at Noroff",
			"Anyone up for a study group?",
			"Finished my portfolio!",
			"Coffee recommendations in Oslo",
			"Weekend hike photos",
			"Stuck on CSS grid again",
			"Book of the month",
		},
		bodies: []string{
			"What do you all think?",
			"Sharing a few thoughts from this week.",
			"Let me know in the comments.",
			"Took me forever but it was worth it.",
			"",
		},
		tags:    []string{"study", "outdoors", "coffee", "code", "books", "life"},
		authors: []string{"ola_nordmann", "kari_n", "per_dev", "ingrid", "lars_b"},
		symbols: []string{"👍", "❤️", "😂", "😮"},
		base:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// GeneratePost creates a post with id, created some hours before the
// generator's base time.
func (pg *PostGenerator) GeneratePost(id int) *types.Post {
	created := pg.base.Add(-time.Duration(pg.rand.Intn(24*60)) * time.Hour)
	author := pg.randElement(pg.authors)

	post := &types.Post{
		ID:      id,
		Title:   pg.randElement(pg.titles),
		Body:    pg.randElement(pg.bodies),
		Tags:    []string{pg.randElement(pg.tags)},
		Created: types.NewTimestamp(created),
		Updated: types.NewTimestamp(created),
		Author:  &types.ProfileSummary{Name: author, Email: author + "@stud.noroff.no"},
	}

	for _, symbol := range pg.symbols {
		if pg.rand.Intn(3) != 0 {
			continue
		}
		r := &types.Reaction{Symbol: symbol}
		for n := pg.rand.Intn(3) + 1; n > 0; n-- {
			r.Reactors = append(r.Reactors, pg.randElement(pg.authors))
			r.Count++
		}
		post.Reactions = append(post.Reactions, r)
	}

	return post
}

// GenerateSequential creates n posts with ids 1..n whose creation times
// increase with the id, one minute apart.
func (pg *PostGenerator) GenerateSequential(n int) []*types.Post {
	posts := make([]*types.Post, 0, n)
	for i := 1; i <= n; i++ {
		p := pg.GeneratePost(i)
		p.Title = fmt.Sprintf("Post %d", i)
		created := pg.base.Add(time.Duration(i) * time.Minute)
		p.Created = types.NewTimestamp(created)
		p.Updated = types.NewTimestamp(created)
		posts = append(posts, p)
	}
	return posts
}

// GenerateReplyChain creates depth comments on postID, each replying to the
// previous one.
func (pg *PostGenerator) GenerateReplyChain(postID, firstID, depth int) []*types.Comment {
	comments := make([]*types.Comment, 0, depth)
	var parent *int
	for i := 0; i < depth; i++ {
		id := firstID + i
		author := pg.randElement(pg.authors)
		comments = append(comments, &types.Comment{
			ID:        id,
			Body:      fmt.Sprintf("Reply level %d", i),
			ReplyToID: parent,
			PostID:    postID,
			Owner:     author,
			Created:   types.NewTimestamp(pg.base.Add(time.Duration(i) * time.Second)),
		})
		parentID := id
		parent = &parentID
	}
	return comments
}

func (pg *PostGenerator) randElement(list []string) string {
	return list[pg.rand.Intn(len(list))]
}
