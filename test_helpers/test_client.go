package test_helpers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	social "github.com/jamesprial/go-noroff-social"
	"github.com/jamesprial/go-noroff-social/pkg/credentials"
)

// TestClient pairs a social client with the mock server it talks to.
type TestClient struct {
	*social.Client
	Server *MockServer
	Store  *credentials.Store
	Logs   *SafeBuffer
}

// MockClientConfig tweaks the client created by NewTestClient.
type MockClientConfig struct {
	APIKey              string
	AutoCreateAPIKey    bool
	ClearOnUnauthorized bool
	Backend             credentials.Backend
	Notifier            social.Notifier
	Timeout             time.Duration
}

// NewTestClient starts a mock server and returns a client pointed at it.
// Both are cleaned up when the test ends. Rate limiting is effectively
// disabled so tests never wait on the limiter.
func NewTestClient(t testing.TB, cfg *MockClientConfig) *TestClient {
	t.Helper()
	if cfg == nil {
		cfg = &MockClientConfig{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	server := NewMockServer()
	t.Cleanup(server.Close)

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := credentials.NewStore(cfg.Backend, logger)

	client, err := social.NewClient(&social.Config{
		BaseURL:             server.URL(),
		APIKey:              cfg.APIKey,
		UserAgent:           "go-noroff-social-tests/1.0",
		HTTPClient:          &http.Client{Timeout: cfg.Timeout},
		Logger:              logger,
		Credentials:         store,
		RateLimit:           &social.RateLimitConfig{RequestsPerMinute: 600000, Burst: 1000},
		AutoCreateAPIKey:    cfg.AutoCreateAPIKey,
		ClearOnUnauthorized: cfg.ClearOnUnauthorized,
		Notifier:            cfg.Notifier,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return &TestClient{Client: client, Server: server, Store: store, Logs: logs}
}

// Notice is one message captured by a RecordingNotifier.
type Notice struct {
	Kind    social.NoticeKind
	Message string
}

// RecordingNotifier captures notices for assertions.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *RecordingNotifier) Notify(_ context.Context, kind social.NoticeKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{Kind: kind, Message: message})
}

// Notices returns a copy of the captured notices.
func (n *RecordingNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

// SafeBuffer is a bytes.Buffer safe for concurrent writers.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
