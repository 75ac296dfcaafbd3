package social_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	social "github.com/jamesprial/go-noroff-social"
	"github.com/jamesprial/go-noroff-social/pkg/credentials"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/test_helpers"
)

func TestLoginStoresTokenAndAuthorizesLaterRequests(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Server.SetResponse(http.MethodPost, "/auth/login", &test_helpers.MockResponse{
		Status: http.StatusOK,
		Body:   `{"data":{"accessToken":"abc","name":"u1"}}`,
	})

	resp, err := tc.Login(context.Background(), "user@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, "u1", resp.DisplayName)
	assert.False(t, resp.APIKeyCreated)

	cred := tc.Credentials()
	assert.Equal(t, "abc", cred.Token)
	assert.Equal(t, "u1", cred.DisplayName)
	assert.True(t, tc.IsAuthenticated())

	_, err = tc.Execute(context.Background(), social.RequestSpec{Path: "social/profiles"})
	require.Error(t, err, "mock does not know token abc")

	last, err := tc.Server.LastRequest(http.MethodGet, "/social/profiles")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", last.Headers.Get("Authorization"))
}

func TestLoginSendsCredentialsWithoutStaleToken(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Server.AddUser("ola@stud.noroff.no", "password1", "ola")
	tc.Store.SetToken("stale")

	_, err := tc.Login(context.Background(), "  ola@stud.noroff.no ", "password1")
	require.NoError(t, err)

	last, err := tc.Server.LastRequest(http.MethodPost, "/auth/login")
	require.NoError(t, err)
	assert.Empty(t, last.Headers.Get("Authorization"))
	assert.Equal(t, "application/json", last.Headers.Get("Content-Type"))
	assert.JSONEq(t, `{"email":"ola@stud.noroff.no","password":"password1"}`, last.Body)
}

func TestLoginOverwritesPreviousSession(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Server.AddUser("kari@stud.noroff.no", "password1", "kari")
	tc.Store.SetSession(types.Credential{Token: "old", APIKey: "old-key", DisplayName: "someone"})

	_, err := tc.Login(context.Background(), "kari@stud.noroff.no", "password1")
	require.NoError(t, err)

	assert.Equal(t, types.Credential{Token: test_helpers.TokenFor("kari"), DisplayName: "kari"}, tc.Store.Get())
}

func TestLoginNormalizesBearerPrefix(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Server.SetResponse(http.MethodPost, "/auth/login", &test_helpers.MockResponse{
		Body: `{"data":{"accessToken":"BEARER xyz","name":"u1"}}`,
	})

	resp, err := tc.Login(context.Background(), "user@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "xyz", resp.Token)
	assert.Equal(t, "xyz", tc.Store.Get().Token)
}

func TestLoginWithoutAccessToken(t *testing.T) {
	bodies := map[string]string{
		"no token field": `{"data":{"name":"u1"}}`,
		"empty token":    `{"data":{"accessToken":"","name":"u1"}}`,
		"null data":      `{"data":null}`,
		"not an object":  `{"data":[1,2,3]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			tc := test_helpers.NewTestClient(t, nil)
			tc.Store.SetToken("keep-me")
			tc.Server.SetResponse(http.MethodPost, "/auth/login", &test_helpers.MockResponse{Body: body})

			_, err := tc.Login(context.Background(), "user@x.com", "secret")
			var missing *pkgerrs.MissingTokenError
			require.True(t, errors.As(err, &missing), "expected MissingTokenError, got %v", err)
			assert.Equal(t, "keep-me", tc.Store.Get().Token, "failed login leaves the store untouched")
		})
	}
}

func TestLoginRejectedByServer(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Server.AddUser("ola@stud.noroff.no", "password1", "ola")

	_, err := tc.Login(context.Background(), "ola@stud.noroff.no", "wrong")
	var apiErr *pkgerrs.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.False(t, tc.IsAuthenticated())
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)

	_, err := tc.Login(context.Background(), " ", "secret")
	var cfgErr *pkgerrs.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, tc.Server.Requests())
}

func TestLoginCreatesAPIKeyWhenConfigured(t *testing.T) {
	tc := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{AutoCreateAPIKey: true})
	tc.Server.AddUser("ola@stud.noroff.no", "password1", "ola")

	resp, err := tc.Login(context.Background(), "ola@stud.noroff.no", "password1")
	require.NoError(t, err)
	assert.True(t, resp.APIKeyCreated)
	assert.Equal(t, "key-1", tc.Store.Get().APIKey)

	last, err := tc.Server.LastRequest(http.MethodPost, "/auth/create-api-key")
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+test_helpers.TokenFor("ola"), last.Headers.Get("Authorization"))
	assert.JSONEq(t, `{"name":"go-noroff-social"}`, last.Body)
}

func TestLoginSurvivesAPIKeyFailure(t *testing.T) {
	tc := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{AutoCreateAPIKey: true})
	tc.Server.AddUser("ola@stud.noroff.no", "password1", "ola")
	tc.Server.SetResponse(http.MethodPost, "/auth/create-api-key", &test_helpers.MockResponse{
		Status: http.StatusInternalServerError,
		Body:   `{"errors":[{"message":"boom"}]}`,
	})

	resp, err := tc.Login(context.Background(), "ola@stud.noroff.no", "password1")
	require.NoError(t, err, "API key creation is best-effort")
	assert.False(t, resp.APIKeyCreated)
	assert.Equal(t, test_helpers.TokenFor("ola"), tc.Store.Get().Token)
	assert.Empty(t, tc.Store.Get().APIKey)
	assert.Contains(t, tc.Logs.String(), "best-effort call failed")
}

func TestLoginSkipsAPIKeyCreationWithStaticKey(t *testing.T) {
	tc := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{AutoCreateAPIKey: true, APIKey: "static"})
	tc.Server.AddUser("ola@stud.noroff.no", "password1", "ola")

	resp, err := tc.Login(context.Background(), "ola@stud.noroff.no", "password1")
	require.NoError(t, err)
	assert.False(t, resp.APIKeyCreated)
	assert.Equal(t, 0, tc.Server.CallCount(http.MethodPost, "/auth/create-api-key"))
	assert.Equal(t, "static", tc.Store.Get().APIKey)
}

func TestStaticAPIKeySentOnEveryRequest(t *testing.T) {
	tc := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{APIKey: "static"})
	tc.Server.RequireAPIKey("static")
	tc.Server.Authorize("tok", "ola")
	tc.Store.SetToken("tok")

	_, err := tc.ListPosts(context.Background(), nil)
	require.NoError(t, err)

	tc.Logout()
	_, err = tc.ListPosts(context.Background(), nil)
	require.Error(t, err)

	for _, entry := range tc.Server.Requests() {
		assert.Equal(t, "static", entry.Headers.Get("X-Noroff-API-Key"), "static key survives logout")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Store.SetSession(types.Credential{Token: "t", APIKey: "k", DisplayName: "n"})

	tc.Logout()
	assert.Equal(t, types.Credential{}, tc.Store.Get())

	tc.Logout()
	assert.Equal(t, types.Credential{}, tc.Store.Get())
}

func TestRegister(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)

	profile, err := tc.Register(context.Background(), &types.RegisterRequest{
		Name:     "new_user",
		Email:    "new@stud.noroff.no",
		Password: "password1",
		Bio:      "hello",
	})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "new_user", profile.Name)
	assert.False(t, tc.IsAuthenticated(), "registering does not log in")

	_, err = tc.Register(context.Background(), &types.RegisterRequest{
		Name:     "new_user",
		Email:    "new@stud.noroff.no",
		Password: "password1",
	})
	var apiErr *pkgerrs.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Profile already exists", apiErr.Message)
}

func TestRegisterValidatesLocally(t *testing.T) {
	tests := []struct {
		name    string
		req     *types.RegisterRequest
		message string
	}{
		{"bad email", &types.RegisterRequest{Name: "ola", Email: "ola", Password: "password1"}, "Please enter a valid email address."},
		{"short password", &types.RegisterRequest{Name: "ola", Email: "ola@x.no", Password: "short"}, "Password must be at least 8 characters."},
		{"short name", &types.RegisterRequest{Name: "o", Email: "ola@x.no", Password: "password1"}, "Please enter your name."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := test_helpers.NewTestClient(t, nil)
			_, err := tc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.message, pkgerrs.UserMessage(err, "Registration failed"))
			assert.Empty(t, tc.Server.Requests())
		})
	}
}

func TestClearOnUnauthorized(t *testing.T) {
	tc := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{ClearOnUnauthorized: true})
	tc.Store.SetSession(types.Credential{Token: "expired", DisplayName: "ola"})

	_, err := tc.ListPosts(context.Background(), nil)
	require.True(t, pkgerrs.IsUnauthorized(err))
	assert.Equal(t, types.Credential{}, tc.Store.Get())
}

func TestUnauthorizedKeepsCredentialsByDefault(t *testing.T) {
	tc := test_helpers.NewTestClient(t, nil)
	tc.Store.SetToken("expired")

	_, err := tc.ListPosts(context.Background(), nil)
	require.True(t, pkgerrs.IsUnauthorized(err))
	assert.Equal(t, "expired", tc.Store.Get().Token)
}

func TestCredentialsRestoredFromBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")

	first := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{Backend: credentials.NewFileBackend(path)})
	first.Server.AddUser("ola@stud.noroff.no", "password1", "ola")
	_, err := first.Login(context.Background(), "ola@stud.noroff.no", "password1")
	require.NoError(t, err)

	second := test_helpers.NewTestClient(t, &test_helpers.MockClientConfig{Backend: credentials.NewFileBackend(path)})
	assert.Equal(t, "", second.Store.Get().Token, "nothing is read before Connect")

	require.NoError(t, second.Connect(context.Background()))
	cred := second.Credentials()
	assert.Equal(t, test_helpers.TokenFor("ola"), cred.Token)
	assert.Equal(t, "ola", cred.DisplayName)
	assert.True(t, strings.HasPrefix(cred.Token, "token-"))
}
