package social

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jamesprial/go-noroff-social/pkg/credentials"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL         = "NOROFF_API_BASE"
	EnvAPIKey          = "NOROFF_API_KEY"
	EnvUserAgent       = "NOROFF_USER_AGENT"
	EnvTimeout         = "NOROFF_TIMEOUT"
	EnvRequestsPerMin  = "NOROFF_RPM"
	EnvCredentialsFile = "NOROFF_CREDENTIALS_FILE"
)

// ConfigFromEnv builds a Config from NOROFF_* environment variables.
// Unset or malformed values fall back to the defaults NewClient applies.
//
// NOROFF_CREDENTIALS_FILE selects a persistent credential store: a path
// ending in .db, .sqlite or .sqlite3 opens a SQLite database, anything else
// a JSON file. The returned closer releases the store and is never nil.
func ConfigFromEnv(logger *slog.Logger) (*Config, func() error, error) {
	cfg := &Config{
		BaseURL:   envString(EnvBaseURL, DefaultBaseURL),
		APIKey:    envString(EnvAPIKey, ""),
		UserAgent: envString(EnvUserAgent, DefaultUserAgent),
		Logger:    logger,
		HTTPClient: &http.Client{
			Timeout: envDuration(EnvTimeout, DefaultTimeout),
		},
	}
	if rpm := envInt(EnvRequestsPerMin, 0); rpm > 0 {
		cfg.RateLimit = &RateLimitConfig{RequestsPerMinute: float64(rpm)}
	}

	closer := func() error { return nil }
	path := envString(EnvCredentialsFile, "")
	if path == "" {
		return cfg, closer, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		backend, err := credentials.OpenSQLite(path)
		if err != nil {
			return nil, closer, err
		}
		cfg.Credentials = credentials.NewStore(backend, logger)
		closer = backend.Close
	default:
		cfg.Credentials = credentials.NewStore(credentials.NewFileBackend(path), logger)
	}
	return cfg, closer, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
