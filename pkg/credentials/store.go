// Package credentials holds the bearer token, API key and display name used
// to authenticate API calls, optionally persisted through a Backend.
//
// Every mutation is best-effort: a failing backend is logged and the store
// keeps working in memory, degrading to logged-out on restore.
package credentials

import (
	"encoding/json"
	"log/slog"
	"sync"

	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// SessionKey is the backend key holding the persisted credential. The
// token, API key and display name are stored together as one JSON record so
// a backend never holds a pair from two different sessions.
const SessionKey = "ss_session"

type record struct {
	Token       string `json:"token,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// Backend is a key-value persistence layer for credentials.
type Backend interface {
	// Get returns the stored value and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store is the single source of truth for the current credentials.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	cred    types.Credential
	backend Backend
	logger  *slog.Logger
}

// NewStore creates a store backed by backend. A nil backend keeps
// credentials in memory only. Call Load to restore persisted values.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// NewMemoryStore creates a store that does not persist anything.
func NewMemoryStore() *Store {
	return NewStore(nil, nil)
}

// Load replaces the in-memory credentials with the persisted ones. If the
// backend fails, the store is left logged out.
func (s *Store) Load() types.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return s.cred
	}

	raw, ok, err := s.backend.Get(SessionKey)
	if err != nil {
		s.logger.Warn("credential backend read failed", "error", &pkgerrs.StorageError{Op: "get", Key: SessionKey, Err: err})
		s.cred = types.Credential{}
		return s.cred
	}
	if !ok {
		s.cred = types.Credential{}
		return s.cred
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn("credential backend read failed", "error", &pkgerrs.StorageError{Op: "decode", Key: SessionKey, Err: err})
		s.cred = types.Credential{}
		return s.cred
	}

	s.cred = types.Credential{Token: rec.Token, APIKey: rec.APIKey, DisplayName: rec.DisplayName}
	return s.cred
}

// Get returns a snapshot of the current credentials.
func (s *Store) Get() types.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.Token = token
	s.persist()
}

// ClearToken removes the bearer token only.
func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.Token = ""
	s.persist()
}

// SetAPIKey stores the API key.
func (s *Store) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.APIKey = key
	s.persist()
}

// SetDisplayName stores the name of the logged in user.
func (s *Store) SetDisplayName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.DisplayName = name
	s.persist()
}

// SetSession replaces the whole credential at once. Nothing from the
// previous session survives.
func (s *Store) SetSession(cred types.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.persist()
}

// ClearAuth removes token, API key and display name. Readers never observe
// a state where only some of them are cleared, and a later Load never
// restores any of them.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = types.Credential{}
	s.erase()
}

// persist writes the current credential as one record. If the write fails
// the persisted record is erased, so a restore comes back logged out rather
// than with the previous session. Must be called with mu held.
func (s *Store) persist() {
	if s.backend == nil {
		return
	}
	if s.cred == (types.Credential{}) {
		s.erase()
		return
	}
	data, err := json.Marshal(record{Token: s.cred.Token, APIKey: s.cred.APIKey, DisplayName: s.cred.DisplayName})
	if err == nil {
		err = s.backend.Set(SessionKey, string(data))
	}
	if err != nil {
		s.logger.Warn("credential backend write failed", "error", &pkgerrs.StorageError{Op: "set", Key: SessionKey, Err: err})
		s.erase()
	}
}

// erase removes the persisted record. When Remove fails it falls back to
// overwriting the record with an empty one. Must be called with mu held.
func (s *Store) erase() {
	if s.backend == nil {
		return
	}
	err := s.backend.Remove(SessionKey)
	if err == nil {
		return
	}
	s.logger.Warn("credential backend remove failed", "error", &pkgerrs.StorageError{Op: "remove", Key: SessionKey, Err: err})
	if err := s.backend.Set(SessionKey, "{}"); err != nil {
		s.logger.Warn("credential backend write failed", "error", &pkgerrs.StorageError{Op: "set", Key: SessionKey, Err: err})
	}
}
