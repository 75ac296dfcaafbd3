package social

import (
	"context"
	"net/http"
	"strings"

	"github.com/jamesprial/go-noroff-social/internal"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
	"github.com/jamesprial/go-noroff-social/pkg/validation"
)

const (
	pathLogin        = "auth/login"
	pathRegister     = "auth/register"
	pathCreateAPIKey = "auth/create-api-key"
)

// Login exchanges email and password for an access token.
//
// On success the credential store is overwritten as a whole: the new token,
// the profile name, and the configured static API key (or none). Nothing
// from a previous session survives. When Config.AutoCreateAPIKey is set and
// no static key is configured, an API key is created afterwards; a failure
// there is logged and does not fail the login.
//
// A 2xx response without an access token returns *errors.MissingTokenError
// and leaves the store untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &pkgerrs.ConfigError{Field: "credentials", Message: "Please enter your email and password."}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     pathLogin,
		Method:   http.MethodPost,
		Body:     map[string]string{"email": email, "password": password},
		SkipAuth: true,
		Fallback: "Login failed",
	})
	if err != nil {
		return nil, err
	}

	var result types.LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, &pkgerrs.MissingTokenError{Body: resp.Body}
	}
	token := internal.NormalizeBearer(result.AccessToken)
	if token == "" {
		return nil, &pkgerrs.MissingTokenError{Body: resp.Body}
	}

	c.creds.SetSession(types.Credential{
		Token:       token,
		APIKey:      c.config.APIKey,
		DisplayName: result.Name,
	})
	c.logger.InfoContext(ctx, "logged in", "name", result.Name)

	out := &LoginResponse{
		Token:       token,
		DisplayName: result.Name,
		Profile:     &result,
	}

	if c.config.AutoCreateAPIKey && c.config.APIKey == "" {
		out.APIKeyCreated = c.bestEffort(ctx, "create api key", func(ctx context.Context) error {
			_, err := c.CreateAPIKey(ctx, c.config.APIKeyName)
			return err
		})
	}

	return out, nil
}

// Logout clears the token, API key and display name in one step.
func (c *Client) Logout() {
	_ = c.Connect(context.Background())
	c.creds.ClearAuth()
}

// Register creates an account. The payload is validated locally first and
// the returned error message is fit for showing to a user.
// Registering does not log in.
func (c *Client) Register(ctx context.Context, req *types.RegisterRequest) (*types.Profile, error) {
	if err := validation.ValidateRegistration(req); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "registration", Message: err.Error()}
	}

	payload := *req
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Name = strings.TrimSpace(payload.Name)

	resp, err := c.do(ctx, RequestSpec{
		Path:     pathRegister,
		Method:   http.MethodPost,
		Body:     payload,
		SkipAuth: true,
		Fallback: "Registration failed",
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[types.Profile]("register", resp)
}

// CreateAPIKey asks the server for a new API key and stores it. The server
// rejects the call without a logged-in session.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (string, error) {
	var body any
	if name != "" {
		body = map[string]string{"name": name}
	}

	resp, err := c.do(ctx, RequestSpec{
		Path:     pathCreateAPIKey,
		Method:   http.MethodPost,
		Body:     body,
		Fallback: "Failed to create API key",
	})
	if err != nil {
		return "", err
	}

	result, err := decodeOne[types.APIKeyResult]("create api key", resp)
	if err != nil {
		return "", err
	}
	if result == nil || result.Key == "" {
		return "", &pkgerrs.ParseError{Operation: "create api key", Message: "response has no key"}
	}

	c.creds.SetAPIKey(result.Key)
	return result.Key, nil
}
