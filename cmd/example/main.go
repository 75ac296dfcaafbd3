package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	social "github.com/jamesprial/go-noroff-social"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

func main() {
	email := os.Getenv("NOROFF_EMAIL")
	password := os.Getenv("NOROFF_PASSWORD")

	// Route structured logs to stdout; adjust the level as needed.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// NOROFF_API_BASE, NOROFF_API_KEY, NOROFF_CREDENTIALS_FILE and friends
	config, closeStore, err := social.ConfigFromEnv(logger)
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	defer closeStore()

	config.UserAgent = "example-bot/1.0"
	config.AutoCreateAPIKey = config.APIKey == ""

	client, err := social.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to restore credentials: %v", err)
	}

	if !client.IsAuthenticated() {
		if email == "" || password == "" {
			log.Fatal("NOROFF_EMAIL and NOROFF_PASSWORD environment variables are required when no stored session exists")
		}
		login, err := client.Login(ctx, email, password)
		if err != nil {
			log.Fatalf("Login failed: %s", pkgerrs.UserMessage(err, "Login failed"))
		}
		fmt.Printf("Logged in as %s (API key created: %v)\n", login.DisplayName, login.APIKeyCreated)
	} else {
		fmt.Printf("Restored session for %s\n", client.Credentials().DisplayName)
	}

	// The feed loads every post once and pages locally.
	feed := client.NewFeed(nil)
	page := feed.Load(ctx, 1)
	if page.Err != nil {
		log.Fatalf("Failed to load feed: %s", page.Message)
	}

	fmt.Printf("\nFeed page %d of %d (%d posts total):\n", page.Page, page.PageCount, page.Total)
	for i, post := range page.Items {
		fmt.Printf("%d. %.60s by %s (%d comments, %d 👍)\n",
			i+1, post.Title, post.AuthorName(), len(post.Comments), post.ReactionCount("👍"))
	}

	if len(page.Items) == 0 {
		return
	}

	first := page.Items[0]
	if err := feed.ToggleReaction(ctx, first.ID, "👍"); err != nil {
		log.Printf("Failed to react: %s", pkgerrs.UserMessage(err, "Failed to react"))
	} else {
		fmt.Printf("\nToggled 👍 on post %d, now %d\n", first.ID, feed.Post(first.ID).ReactionCount("👍"))
	}

	tree := social.CommentTreeOf(feed.Post(first.ID))
	fmt.Printf("Post %d has %d comments, max reply depth %d\n", first.ID, tree.Count(), tree.GetDepth())
	tree.Walk(func(c *types.Comment) {
		indent := 0
		for parent := c.ReplyToID; parent != nil; {
			indent++
			p := tree.GetByID(*parent)
			if p == nil {
				break
			}
			parent = p.ReplyToID
		}
		fmt.Printf("%s- %s: %.60s\n", strings.Repeat("  ", indent+1), c.AuthorName(), c.Body)
	})

	// Profile view: profile and its first page of posts, loaded concurrently.
	if name := client.Credentials().DisplayName; name != "" {
		view, err := client.LoadProfileView(ctx, name, 1, 12)
		if err != nil {
			log.Printf("Failed to load profile: %s", pkgerrs.UserMessage(err, "Failed to load profile"))
		} else {
			fmt.Printf("\n%s has %d followers and %d posts\n", view.Profile.Name, view.Profile.FollowerCount(), len(view.Posts.Posts))
		}
	}

	// Walk every profile through the paginated iterator.
	profiles, err := client.NewProfilesIterator(ctx, &types.ProfilesQuery{Pagination: types.Pagination{Limit: 50}}).Collect(200)
	if err != nil {
		log.Printf("Failed to list profiles: %v", err)
	} else {
		fmt.Printf("Fetched %d profiles\n", len(profiles))
	}
}
