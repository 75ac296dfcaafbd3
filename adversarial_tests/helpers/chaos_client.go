package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

// ChaosMode defines the type of chaos to inject
type ChaosMode int

const (
	// ChaosNone forwards requests untouched
	ChaosNone ChaosMode = iota

	// ChaosConnectionReset fails the round trip
	ChaosConnectionReset

	// ChaosPartialRead fails halfway through reading the body
	ChaosPartialRead

	// ChaosEmptyBody answers 200 with no body
	ChaosEmptyBody

	// ChaosInvalidJSON answers 200 with a JSON content type and a broken body
	ChaosInvalidJSON

	// ChaosBinaryBody answers 200 with bytes that are not valid UTF-8
	ChaosBinaryBody

	// ChaosCustom answers with the configured status, content type and body
	ChaosCustom
)

// ChaosConfig configures the chaos transport behavior
type ChaosConfig struct {
	Mode ChaosMode

	// Status, ContentType and Body are used by ChaosCustom.
	Status      int
	ContentType string
	Body        string
}

// ChaosTransport is an http.RoundTripper that injects failures in front of
// a real transport.
type ChaosTransport struct {
	next     http.RoundTripper
	config   *ChaosConfig
	requests atomic.Int64
}

// NewChaosTransport wraps next. A nil next uses http.DefaultTransport.
func NewChaosTransport(next http.RoundTripper, config *ChaosConfig) *ChaosTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if config == nil {
		config = &ChaosConfig{Mode: ChaosNone}
	}
	return &ChaosTransport{next: next, config: config}
}

// Requests returns how many requests passed through the transport.
func (c *ChaosTransport) Requests() int64 {
	return c.requests.Load()
}

// RoundTrip implements http.RoundTripper interface
func (c *ChaosTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)

	switch c.config.Mode {
	case ChaosConnectionReset:
		return nil, errors.New("connection reset by peer")

	case ChaosPartialRead:
		resp, err := c.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = &partialReadCloser{reader: bytes.NewReader(body[:len(body)/2])}
		return resp, nil

	case ChaosEmptyBody:
		return buildResponse(req, http.StatusOK, "application/json", ""), nil

	case ChaosInvalidJSON:
		return buildResponse(req, http.StatusOK, "application/json", `{"data": [{"id": 1,`), nil

	case ChaosBinaryBody:
		return buildResponse(req, http.StatusOK, "application/octet-stream", "\xff\xfe\x00\x01"), nil

	case ChaosCustom:
		return buildResponse(req, c.config.Status, c.config.ContentType, c.config.Body), nil

	default:
		return c.next.RoundTrip(req)
	}
}

func buildResponse(req *http.Request, status int, contentType, body string) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
		Header:        header,
	}
}

// partialReadCloser returns its data and then fails instead of reporting EOF.
type partialReadCloser struct {
	reader io.Reader
}

func (p *partialReadCloser) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if err == io.EOF {
		return n, errors.New("connection reset during read")
	}
	return n, err
}

func (p *partialReadCloser) Close() error {
	return nil
}
