package social

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesprial/go-noroff-social/internal"
	"github.com/jamesprial/go-noroff-social/internal/metrics"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/credentials"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

const (
	// DefaultBaseURL is the default Noroff API base URL
	DefaultBaseURL = "https://v2.api.noroff.dev"
	// DefaultUserAgent is the default user agent string
	DefaultUserAgent = "go-noroff-social/0.1"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
	// DefaultAPIKeyName is the name given to API keys created after login
	DefaultAPIKeyName = "go-noroff-social"
)

// DefaultReactionSymbols is used when Config.ReactionSymbols is empty.
var DefaultReactionSymbols = []string{"👍", "❤️", "😂", "😮", "😢"}

// RequestSpec describes a raw API call for Execute.
type RequestSpec = internal.RequestSpec

// RawBody is a pre-encoded request body sent without JSON encoding.
type RawBody = internal.RawBody

// RateLimitConfig controls client-side request throttling.
type RateLimitConfig = internal.RateLimitConfig

// Config holds the configuration for the social API client.
//
// Only BaseURL and APIKey usually need attention; everything else has a
// working default.
//
//	config := &social.Config{
//		APIKey:    os.Getenv("NOROFF_API_KEY"),
//		UserAgent: "myapp/1.0",
//	}
type Config struct {
	// BaseURL for the API.
	// Defaults to DefaultBaseURL if not specified.
	BaseURL string

	// APIKey is a static API key sent with every request when the credential
	// store does not hold one.
	APIKey string

	// APIKeyHeader overrides the header carrying the API key.
	// Defaults to "X-Noroff-API-Key".
	APIKeyHeader string

	// UserAgent string to identify your application.
	UserAgent string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// Logger for structured diagnostics.
	// Optional. If provided, debug information will be logged during API calls.
	Logger *slog.Logger

	// Credentials is the credential store consulted on every request.
	// Defaults to an in-memory store.
	Credentials *credentials.Store

	// RateLimit throttles outbound requests. Defaults to 60 requests/minute.
	RateLimit *RateLimitConfig

	// AutoCreateAPIKey creates and stores an API key after a successful login
	// when no static APIKey is configured. Failure does not fail the login.
	AutoCreateAPIKey bool

	// APIKeyName is the name given to API keys created after login.
	APIKeyName string

	// ClearOnUnauthorized clears the stored credentials whenever the server
	// answers 401.
	ClearOnUnauthorized bool

	// MetricsRegisterer receives the client's Prometheus collectors.
	// Optional. Metrics are disabled when nil.
	MetricsRegisterer prometheus.Registerer

	// Notifier receives user-facing status messages from the list
	// controllers. Defaults to a notifier that logs through Logger.
	Notifier Notifier

	// ReactionSymbols is the default reaction bar offered for posts.
	ReactionSymbols []string
}

// Client is the social API client.
// All accessors are safe for concurrent use; each call builds its own request
// and reads the credential store once.
type Client struct {
	http      *internal.Client
	creds     *credentials.Store
	config    *Config
	validator *internal.Validator
	logger    *slog.Logger
	notifier  Notifier

	connectOnce sync.Once
}

// NewClient creates a new client with the provided configuration.
//
// Returns an error if:
//   - config is nil
//   - BaseURL is not an absolute http(s) URL
//   - UserAgent or APIKeyHeader contain header-breaking characters
//
// NewClient does not touch the network or the credential backend. Persisted
// credentials are restored lazily by the first call, or explicitly by Connect.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = internal.DefaultAPIKeyHeader
	}
	if cfg.APIKeyName == "" {
		cfg.APIKeyName = DefaultAPIKeyName
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Credentials == nil {
		cfg.Credentials = credentials.NewStore(nil, cfg.Logger)
	}
	if len(cfg.ReactionSymbols) == 0 {
		cfg.ReactionSymbols = DefaultReactionSymbols
	}
	if cfg.Notifier == nil {
		cfg.Notifier = &SlogNotifier{Logger: cfg.Logger}
	}

	validator := internal.NewValidator()
	if err := validator.ValidateUserAgent(cfg.UserAgent); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "UserAgent", Message: err.Error()}
	}
	if err := validator.ValidateHeaderValue("APIKey", cfg.APIKey); err != nil {
		return nil, err
	}

	opts := []internal.Option{internal.WithAPIKeyHeader(cfg.APIKeyHeader)}
	if cfg.MetricsRegisterer != nil {
		m, err := metrics.New(cfg.MetricsRegisterer)
		if err != nil {
			return nil, &pkgerrs.ConfigError{Field: "MetricsRegisterer", Message: err.Error()}
		}
		opts = append(opts, internal.WithMetrics(m))
	}

	source := &credentialSource{store: cfg.Credentials, staticAPIKey: cfg.APIKey}
	httpClient, err := internal.NewClient(cfg.HTTPClient, source, cfg.BaseURL, cfg.UserAgent, cfg.RateLimit, cfg.Logger, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:      httpClient,
		creds:     cfg.Credentials,
		config:    &cfg,
		validator: validator,
		logger:    cfg.Logger,
		notifier:  cfg.Notifier,
	}, nil
}

// credentialSource falls back to the configured static API key when the
// store holds none.
type credentialSource struct {
	store        *credentials.Store
	staticAPIKey string
}

func (s *credentialSource) Get() types.Credential {
	cred := s.store.Get()
	if cred.APIKey == "" {
		cred.APIKey = s.staticAPIKey
	}
	return cred
}

// Connect restores persisted credentials from the credential backend.
// It is safe to call Connect multiple times; the restore happens once.
// Accessors call it implicitly.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		cred := c.creds.Load()
		c.logger.DebugContext(ctx, "credentials restored", "authenticated", cred.IsAuthenticated())
	})
	return nil
}

// Credentials returns a snapshot of the current credentials.
func (c *Client) Credentials() types.Credential {
	_ = c.Connect(context.Background())
	return c.creds.Get()
}

// IsAuthenticated reports whether a token is held locally. The server stays
// the authority on whether it is still valid.
func (c *Client) IsAuthenticated() bool {
	return c.Credentials().IsAuthenticated()
}

// ReactionSymbols returns the configured default reaction bar.
func (c *Client) ReactionSymbols() []string {
	out := make([]string, len(c.config.ReactionSymbols))
	copy(out, c.config.ReactionSymbols)
	return out
}

// Execute performs an arbitrary API call through the same pipeline the
// typed accessors use and returns the unwrapped payload.
func (c *Client) Execute(ctx context.Context, spec RequestSpec) (any, error) {
	resp, err := c.do(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// do sends spec and applies the unauthorized policy. Errors from the HTTP
// layer are returned unchanged.
func (c *Client) do(ctx context.Context, spec RequestSpec) (*internal.Response, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, spec)
	if err != nil {
		if c.config.ClearOnUnauthorized && spec.BearerOverride == "" && pkgerrs.IsUnauthorized(err) {
			c.logger.InfoContext(ctx, "clearing credentials after unauthorized response", "path", spec.Path)
			c.creds.ClearAuth()
		}
		return nil, err
	}
	return resp, nil
}

// bestEffort runs a call whose failure must not fail the surrounding
// operation. The error is logged and reported as false.
func (c *Client) bestEffort(ctx context.Context, op string, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		c.logger.WarnContext(ctx, "best-effort call failed", "operation", op, "error", err)
		return false
	}
	return true
}

// requireToken fails fast when an operation cannot succeed without a local token.
func (c *Client) requireToken(ctx context.Context, op string) error {
	_ = c.Connect(ctx)
	if !c.creds.Get().IsAuthenticated() {
		return &pkgerrs.NotAuthenticatedError{Operation: op}
	}
	return nil
}

// decodeOne decodes the unwrapped payload into a T. A missing payload yields nil.
func decodeOne[T any](op string, resp *internal.Response) (*T, error) {
	if !resp.HasData() || len(resp.RawData) == 0 {
		return nil, nil
	}
	var v T
	if err := resp.Decode(&v); err != nil {
		return nil, &pkgerrs.ParseError{Operation: op, Err: err}
	}
	return &v, nil
}

// decodeList decodes the unwrapped payload into a slice. It never returns
// nil: an absent or malformed payload is an empty list.
func decodeList[T any](ctx context.Context, logger *slog.Logger, op string, resp *internal.Response) []*T {
	if resp == nil || len(resp.RawData) == 0 {
		return []*T{}
	}
	var items []*T
	if err := resp.Decode(&items); err != nil {
		logger.WarnContext(ctx, "list payload is not an array", "operation", op, "error", err)
		return []*T{}
	}
	out := items[:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	if out == nil {
		return []*T{}
	}
	return out
}

// pathEscape escapes a single path segment.
func pathEscape(v string) string {
	return url.PathEscape(v)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
