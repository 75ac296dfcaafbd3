// Package errors defines the error types used throughout the social API client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMessage is used when neither the server nor the caller supplied one.
const DefaultMessage = "Request failed"

// ConfigError indicates a problem with the client configuration or with
// caller-supplied input rejected before any request is made.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// NetworkError is a transport-level failure: DNS, refused connection, timeout.
// It is never retried by the client.
type NetworkError struct {
	// Method and URL of the request that failed
	Method string
	URL    string
	// Err is the error returned by the transport
	Err error
}

func (e *NetworkError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("network error during %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is the normalized form of every non-2xx response.
type APIError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Message is the best human-readable message found for the failure
	Message string
	// Body is the parsed response body (decoded JSON, text, or nil)
	Body any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the server rejected the credentials.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether the server refused the operation for the caller.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// MissingTokenError means the login endpoint answered 2xx without a usable token.
type MissingTokenError struct {
	// Body is the unwrapped login payload
	Body any
}

func (e *MissingTokenError) Error() string {
	return "login succeeded but no access token was returned"
}

// NotAuthenticatedError is raised before a request is sent when the operation
// needs credentials that are not held locally.
type NotAuthenticatedError struct {
	Operation string
}

func (e *NotAuthenticatedError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("not authenticated: %s requires a logged in user", e.Operation)
	}
	return "not authenticated"
}

// StateError indicates an operation was attempted when the component is not ready.
type StateError struct {
	// Operation is the name of the operation that was attempted
	Operation string
	// Message contains the detailed error message
	Message string
}

func (e *StateError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("state error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("state error: %s", e.Message)
}

// RequestError indicates a problem building a request, e.g. an unencodable body.
type RequestError struct {
	// Operation is the name of the API operation that failed
	Operation string
	// URL is the URL that was being accessed
	URL string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("request error during %s to %s: %s", e.Operation, e.URL, msg)
	} else if e.Operation != "" {
		return fmt.Sprintf("request error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("request error: %s", msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError indicates the unwrapped payload could not be decoded into the
// type an accessor promised.
type ParseError struct {
	// Operation is the name of the API operation where parsing failed
	Operation string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure of a credential persistence backend.
// The credential store logs these; it never returns them to callers.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	var sb strings.Builder
	sb.WriteString("storage error")
	if e.Op != "" {
		fmt.Fprintf(&sb, " during %s", e.Op)
	}
	if e.Key != "" {
		fmt.Fprintf(&sb, " of %q", e.Key)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err carries a 401 response anywhere in its chain.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// UserMessage turns any error produced by this module into a short message
// suitable for showing to a user. It never exposes raw bodies.
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultMessage
	}
	if err == nil {
		return ""
	}

	var (
		apiErr     *APIError
		netErr     *NetworkError
		missingErr *MissingTokenError
		authErr    *NotAuthenticatedError
		cfgErr     *ConfigError
	)
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
	case errors.As(err, &netErr):
		return "Network error. Please check your connection and try again."
	case errors.As(err, &missingErr):
		return "Login failed: no access token received."
	case errors.As(err, &authErr):
		return "You must be logged in to do that."
	case errors.As(err, &cfgErr):
		if cfgErr.Message != "" {
			return cfgErr.Message
		}
	}
	return fallback
}
