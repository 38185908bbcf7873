// Package httpclient is the shared HTTP plumbing for the hand-rolled REST
// backends. The Gemini SDK backends bring their own transport.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/oukeidos/kozh/internal/version"
)

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 8 << 20

// Connection pool tuning. A session talks to one host at a time, so the
// per-host limit is what matters.
const (
	MaxIdleConnsPerHost = 4
	IdleConnTimeout     = 90 * time.Second
	TLSHandshakeTimeout = 15 * time.Second
)

var (
	mu       sync.RWMutex
	shared   *http.Client
	override *http.Client
)

// NewClient returns a client whose transport keeps the stock proxy and
// HTTP/2 behavior with kozh's pool limits applied. A zero timeout means
// requests end only when their context does.
func NewClient(timeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = MaxIdleConnsPerHost
	t.IdleConnTimeout = IdleConnTimeout
	t.TLSHandshakeTimeout = TLSHandshakeTimeout
	return &http.Client{Timeout: timeout, Transport: t}
}

// Default returns the process-wide client, built on first use. Model calls
// run to completion or error, so it has no overall timeout.
func Default() *http.Client {
	mu.RLock()
	c := override
	if c == nil {
		c = shared
	}
	mu.RUnlock()
	if c != nil {
		return c
	}

	mu.Lock()
	defer mu.Unlock()
	if override != nil {
		return override
	}
	if shared == nil {
		shared = NewClient(0)
	}
	return shared
}

// Override makes Default return c until the returned func is called.
// Tests use it to point backends at an httptest server.
func Override(c *http.Client) (restore func()) {
	mu.Lock()
	prev := override
	override = c
	mu.Unlock()
	return func() {
		mu.Lock()
		override = prev
		mu.Unlock()
	}
}

// DoAndRead sends req and returns the whole body, which is always closed.
// Bodies over MaxResponseBytes are an error rather than silently cut.
func DoAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	tooLarge := fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, tooLarge
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, resp, tooLarge
	}
	return body, resp, nil
}

// NewJSONRequest builds a request carrying payload as JSON. A nil payload
// sends no body and no Content-Type.
func NewJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.Short())
	return req, nil
}
