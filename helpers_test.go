package social_test

import (
	"testing"

	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/test_generators"
	"github.com/jamesprial/go-noroff-social/test_helpers"
)

// newLoggedInClient returns a test client already holding a valid session
// for name.
func newLoggedInClient(t *testing.T, name string, cfg *test_helpers.MockClientConfig) *test_helpers.TestClient {
	t.Helper()
	tc := test_helpers.NewTestClient(t, cfg)
	tc.Server.AddUser(name+"@stud.noroff.no", "password1", name)
	tc.Server.Authorize(test_helpers.TokenFor(name), name)
	tc.Store.SetSession(types.Credential{Token: test_helpers.TokenFor(name), DisplayName: name})
	return tc
}

// seedPosts stores n posts with ids 1..n, each newer than the last.
func seedPosts(tc *test_helpers.TestClient, n int) []*types.Post {
	posts := test_generators.NewPostGenerator(42).GenerateSequential(n)
	for _, p := range posts {
		tc.Server.AddPost(p)
	}
	return posts
}

func postIDs(posts []*types.Post) []int {
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
