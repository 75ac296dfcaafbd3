package social

import (
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// LoginResponse is the outcome of a successful login.
type LoginResponse struct {
	// Token is the normalized bearer token now held by the credential store.
	Token string
	// DisplayName is the profile name of the logged in user.
	DisplayName string
	// Profile is the full login payload.
	Profile *types.LoginResult
	// APIKeyCreated is true when an API key was created and stored after login.
	APIKeyCreated bool
}

// PostsPage is one page of posts together with the server's paging block.
type PostsPage struct {
	Posts []*types.Post
	// Meta is nil when the server sent no pagination block.
	Meta *types.PageMeta
}

// ProfilesPage is one page of profiles together with the server's paging block.
type ProfilesPage struct {
	Profiles []*types.Profile
	Meta     *types.PageMeta
}

// ProfileView bundles what a profile screen needs: the profile itself and
// one page of its posts, fetched concurrently.
type ProfileView struct {
	Profile *types.Profile
	Posts   *PostsPage
}
