package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jamesprial/go-noroff-social/internal/metrics"
	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// DefaultAPIKeyHeader is the header the Noroff API reads the API key from.
const DefaultAPIKeyHeader = "X-Noroff-API-Key"

// CredentialSource is read once per request to obtain the token and API key.
type CredentialSource interface {
	Get() types.Credential
}

// Client is the single choke point for every outbound API call.
type Client struct {
	client       *http.Client
	BaseURL      string
	UserAgent    string
	APIKeyHeader string

	creds   CredentialSource
	logger  *slog.Logger
	metrics *metrics.Metrics

	limiter        *rate.Limiter
	mu             sync.Mutex
	forceWaitUntil time.Time
}

// RateLimitConfig controls how requests are throttled before reaching the API.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
	SecondsPerMinute         = 60.0
	ParseFloatBitSize        = 64
)

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records request metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithAPIKeyHeader overrides the API key header name.
func WithAPIKeyHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.APIKeyHeader = name
		}
	}
}

// NewClient returns a new API client.
// If a nil httpClient is provided, http.DefaultClient will be used.
// creds may be nil, in which case requests carry no credentials.
func NewClient(httpClient *http.Client, creds CredentialSource, baseURL string, userAgent string, rateCfg *RateLimitConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: err.Error()}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: "base URL must be an absolute http(s) URL"}
	}
	if parsedURL.Host == "" {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: "base URL has no host"}
	}

	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	c := &Client{
		client:       httpClient,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		UserAgent:    userAgent,
		APIKeyHeader: DefaultAPIKeyHeader,
		creds:        creds,
		logger:       logger,
		limiter:      buildLimiter(*rateCfg),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewRequest builds the HTTP request for spec: URL, method, body and headers.
// Credentials are read from the credential source at this point.
func (c *Client) NewRequest(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	method := spec.ResolveMethod()
	target := appendQuery(JoinURL(c.BaseURL, spec.Path), EncodeQuery(spec.Query))

	body, contentType, err := encodeBody(spec.Body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: method + " " + spec.Path, Message: "failed to encode request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: method + " " + spec.Path, URL: target, Err: err}
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	if contentType != "" {
		setDefaultHeader(req.Header, "Content-Type", contentType)
	}
	setDefaultHeader(req.Header, "Accept", "application/json")

	var cred types.Credential
	if c.creds != nil {
		cred = c.creds.Get()
	}
	if cred.APIKey != "" {
		setDefaultHeader(req.Header, c.APIKeyHeader, cred.APIKey)
	}

	token := NormalizeBearer(spec.BearerOverride)
	if token == "" && !spec.SkipAuth {
		token = NormalizeBearer(cred.Token)
	}
	if token != "" {
		setDefaultHeader(req.Header, "Authorization", "Bearer "+token)
	}

	if c.UserAgent != "" {
		setDefaultHeader(req.Header, "User-Agent", c.UserAgent)
	}

	return req, nil
}

// Do builds and sends the request described by spec and parses the response.
// Transport failures return *errors.NetworkError; non-2xx responses return
// *errors.APIError. Nothing is retried.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	req, err := c.NewRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, &pkgerrs.RequestError{Operation: req.Method + " " + spec.Path, Message: "rate limit wait aborted", Err: err}
	}

	requestID := uuid.NewString()
	start := time.Now()

	httpResp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveNetworkError(req.Method, time.Since(start))
		c.logger.DebugContext(ctx, "api request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", spec.Path,
			"error", err,
		)
		return nil, &pkgerrs.NetworkError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		// A truncated body is treated like an undecodable one.
		raw = nil
	}

	elapsed := time.Since(start)
	c.metrics.ObserveResponse(req.Method, httpResp.StatusCode, elapsed)
	c.applyRateHeaders(httpResp)

	c.logger.DebugContext(ctx, "api request",
		"request_id", requestID,
		"method", req.Method,
		"path", spec.Path,
		"status", httpResp.StatusCode,
		"duration", elapsed,
	)

	body, rawJSON := parseBody(httpResp.Header.Get("Content-Type"), raw)
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, &pkgerrs.APIError{
			StatusCode: httpResp.StatusCode,
			Message:    errorMessage(body, httpResp, spec.Fallback),
			Body:       body,
		}
	}

	resp.Data, resp.RawData, resp.Meta = unwrapEnvelope(body, rawJSON)
	return resp, nil
}

// Execute runs spec and returns the unwrapped payload: the envelope's data
// member when present, otherwise the parsed body as-is.
func (c *Client) Execute(ctx context.Context, spec RequestSpec) (any, error) {
	resp, err := c.Do(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// encodeBody returns the reader and the content type to default to.
// Pre-encoded bodies never get a JSON content type.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case RawBody:
		return b.Reader, b.ContentType, nil
	case *RawBody:
		if b == nil {
			return nil, "", nil
		}
		return b.Reader, b.ContentType, nil
	case json.RawMessage:
		return bytes.NewReader(b), "application/json", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(encoded), "application/json", nil
}

func setDefaultHeader(h http.Header, key, value string) {
	if h.Get(key) != "" {
		return
	}
	h.Set(key, value)
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / SecondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

func (c *Client) waitForRateLimit(ctx context.Context) error {
	if err := c.waitForForcedDelay(ctx); err != nil {
		return err
	}

	if c.limiter == nil {
		return nil
	}

	return c.limiter.Wait(ctx)
}

func (c *Client) waitForForcedDelay(ctx context.Context) error {
	for {
		c.mu.Lock()
		waitUntil := c.forceWaitUntil
		c.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			c.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			c.clearForcedDelay(waitUntil)
		}
	}
}

func (c *Client) clearForcedDelay(previous time.Time) {
	c.mu.Lock()
	if previous.Equal(c.forceWaitUntil) {
		c.forceWaitUntil = time.Time{}
	}
	c.mu.Unlock()
}

// applyRateHeaders delays subsequent requests when the server asks for it.
// The current request is not retried.
func (c *Client) applyRateHeaders(resp *http.Response) {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, ParseFloatBitSize); err == nil && seconds > 0 {
			c.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	remainingHeader := resp.Header.Get("X-Ratelimit-Remaining")
	resetHeader := resp.Header.Get("X-Ratelimit-Reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, ParseFloatBitSize)
	resetSeconds, errReset := strconv.ParseFloat(resetHeader, ParseFloatBitSize)
	if errRemaining != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	if remaining <= 1 {
		c.deferRequests(time.Duration(resetSeconds * float64(time.Second)))
	}
}

func (c *Client) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	c.mu.Lock()
	if until.After(c.forceWaitUntil) {
		c.forceWaitUntil = until
	}
	c.mu.Unlock()
	c.metrics.ObserveDeferral()
}
