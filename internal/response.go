package internal

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	pkgerrs "github.com/jamesprial/go-noroff-social/pkg/errors"
	"github.com/jamesprial/go-noroff-social/pkg/types"
)

// Response is a parsed API response.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the whole parsed body: decoded JSON, text, or nil.
	Body any
	// Data is Body with the {data, meta} envelope removed when present.
	Data any
	// RawData is the JSON encoding of Data, nil for text or empty bodies.
	RawData json.RawMessage
	// Meta is the decoded envelope meta block, if any.
	Meta *types.PageMeta
}

// Decode unmarshals the unwrapped payload into v. An empty or null payload
// leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.RawData) == 0 || bytes.Equal(bytes.TrimSpace(r.RawData), []byte("null")) {
		return nil
	}
	return json.Unmarshal(r.RawData, v)
}

// HasData reports whether the unwrapped payload is non-null.
func (r *Response) HasData() bool {
	return r != nil && r.Data != nil
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// parseBody decodes raw according to contentType. It never fails: JSON that
// does not decode and text that is not valid UTF-8 both degrade to nil.
func parseBody(contentType string, raw []byte) (body any, rawJSON json.RawMessage) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if isJSONContentType(contentType) {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, nil
		}
		return decoded, json.RawMessage(raw)
	}

	if !utf8.Valid(raw) {
		return nil, nil
	}
	return string(raw), nil
}

// unwrapEnvelope returns the data member of an object body that has one,
// together with its raw JSON and the decoded meta block.
func unwrapEnvelope(body any, rawJSON json.RawMessage) (any, json.RawMessage, *types.PageMeta) {
	obj, ok := body.(map[string]any)
	if !ok {
		return body, rawJSON, nil
	}
	data, ok := obj["data"]
	if !ok {
		return body, rawJSON, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(rawJSON, &members); err != nil {
		return data, nil, nil
	}

	var meta *types.PageMeta
	if rawMeta, ok := members["meta"]; ok && !bytes.Equal(bytes.TrimSpace(rawMeta), []byte("null")) {
		var m types.PageMeta
		if err := json.Unmarshal(rawMeta, &m); err == nil {
			meta = &m
		}
	}
	return data, members["data"], meta
}

// errorMessage picks the message for a failed response: the first entry of
// an errors array, then a top-level message, then a reason phrase supplied
// by the server, then the caller fallback. The canonical phrase for the
// status code is only used when nothing else is available; net/http
// synthesizes it even when the server sent none (HTTP/2 has no reason phrase).
func errorMessage(body any, resp *http.Response, fallback string) string {
	if obj, ok := body.(map[string]any); ok {
		if list, ok := obj["errors"].([]any); ok && len(list) > 0 {
			if first, ok := list[0].(map[string]any); ok {
				if msg, ok := first["message"].(string); ok && msg != "" {
					return msg
				}
			}
		}
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
	}

	reason := reasonPhrase(resp)
	canonical := ""
	if resp != nil {
		canonical = http.StatusText(resp.StatusCode)
	}
	if reason != "" && reason != canonical {
		return reason
	}
	if fallback != "" {
		return fallback
	}
	if reason != "" {
		return reason
	}
	if canonical != "" {
		return canonical
	}
	return pkgerrs.DefaultMessage
}

// reasonPhrase extracts the text after the code in a status line such as
// "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	status := strings.TrimSpace(resp.Status)
	if idx := strings.IndexByte(status, ' '); idx >= 0 {
		return strings.TrimSpace(status[idx+1:])
	}
	return ""
}
