package internal

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// RequestSpec describes one logical API call. It is built per call and never shared.
type RequestSpec struct {
	// Path is relative to the base URL, or an absolute http(s) URL.
	Path string
	// Method defaults to GET without a body and POST with one.
	Method string
	// Query values; nil entries are omitted.
	Query map[string]any
	// Body is JSON-encoded unless it is a RawBody, io.Reader or []byte.
	Body any
	// Headers set by the caller always win over injected defaults.
	Headers map[string]string
	// BearerOverride replaces the stored token for this call only.
	BearerOverride string
	// SkipAuth leaves the stored token off the request. BearerOverride is still honored.
	SkipAuth bool
	// Fallback is the error message used when the server and transport give none.
	Fallback string
}

// RawBody is a pre-encoded body (binary upload, multipart form) sent as-is.
type RawBody struct {
	Reader      io.Reader
	ContentType string
}

// ResolveMethod applies the default method rules.
func (s RequestSpec) ResolveMethod() string {
	if s.Method != "" {
		return strings.ToUpper(s.Method)
	}
	if s.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// JoinURL joins base and path with exactly one slash between them.
// An absolute http(s) path is returned unchanged.
func JoinURL(base, path string) string {
	if isAbsoluteURL(path) {
		return path
	}
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	return base + "/" + path
}

func isAbsoluteURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// EncodeQuery serializes query values. Nil values and nil pointers are
// omitted, slices add one pair per element, every other scalar is stringified.
func EncodeQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}

	values := url.Values{}
	for key, val := range query {
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				continue
			}
			values.Add(key, stringify(rv.Elem().Interface()))
		case reflect.Slice, reflect.Array:
			if rv.Kind() == reflect.Slice && rv.IsNil() {
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				values.Add(key, stringify(rv.Index(i).Interface()))
			}
		default:
			values.Add(key, stringify(val))
		}
	}
	return values.Encode()
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// appendQuery adds an encoded query string to rawURL, keeping any existing query.
func appendQuery(rawURL, encoded string) string {
	if encoded == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + encoded
	}
	return rawURL + "?" + encoded
}

// NormalizeBearer trims a token and strips a leading "Bearer " prefix so the
// header is never sent double-prefixed.
func NormalizeBearer(token string) string {
	t := strings.TrimSpace(token)
	if len(t) >= len("bearer ") && strings.EqualFold(t[:len("bearer ")], "bearer ") {
		t = strings.TrimSpace(t[len("bearer "):])
	}
	return t
}
