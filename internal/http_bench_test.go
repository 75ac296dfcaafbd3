package internal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamesprial/go-noroff-social/pkg/types"
)

var benchLimits = &RateLimitConfig{RequestsPerMinute: 6e9, Burst: 1 << 20}

func BenchmarkClient_Do_WithLogging(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Ratelimit-Remaining", "60")
		w.Header().Set("X-Ratelimit-Reset", "3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":1,"title":"hello"},"meta":{}}`))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	client, _ := NewClient(http.DefaultClient, staticCreds{Token: "test-token"}, server.URL, "bench/1.0", benchLimits, logger)

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, _ := client.Do(ctx, RequestSpec{Path: "/social/posts/1"})
		var post types.Post
		_ = resp.Decode(&post)
	}
}

func BenchmarkClient_Do_WithLoggingDebug(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		items := bytes.Repeat([]byte(`{"id":1,"title":"hello","body":"lorem ipsum"},`), 100)
		_, _ = w.Write([]byte(`{"data":[`))
		_, _ = w.Write(items[:len(items)-1])
		_, _ = w.Write([]byte(`],"meta":{"currentPage":1}}`))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, _ := NewClient(http.DefaultClient, staticCreds{Token: "test-token"}, server.URL, "bench/1.0", benchLimits, logger)

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, _ := client.Do(ctx, RequestSpec{Path: "/social/posts"})
		var posts []*types.Post
		_ = resp.Decode(&posts)
	}
}

func BenchmarkClient_Do_WithoutLogging(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":1,"title":"hello"},"meta":{}}`))
	}))
	defer server.Close()

	client, _ := NewClient(http.DefaultClient, staticCreds{Token: "test-token"}, server.URL, "bench/1.0", benchLimits, nil)

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, _ := client.Do(ctx, RequestSpec{Path: "/social/posts/1"})
		var post types.Post
		_ = resp.Decode(&post)
	}
}

func BenchmarkErrorMessage(b *testing.B) {
	body := map[string]any{"errors": []any{map[string]any{"message": "No post with this id"}}}
	resp := &http.Response{StatusCode: http.StatusNotFound, Status: "404 Not Found"}

	for i := 0; i < b.N; i++ {
		_ = errorMessage(body, resp, "Failed to load post")
	}
}
