// Package twentyfirst is a minimal client for the 21st.dev Magic API.
package twentyfirst

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 2 * time.Minute
	maxErrorBody   = 4 << 10
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient doer
}

type ClientOpts struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient doer
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Route string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Route, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError carries a non-2xx answer from the backing service.
type RemoteServiceError struct {
	Route   string
	Status  int
	Message string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Route, e.Status, e.Message)
}

// NewClient returns a client bound to the configured base URL. If HTTPClient
// is nil an *http.Client with the configured timeout is used.
func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// Post sends body as JSON to route and decodes a 2xx answer into out.
// There is exactly one attempt per call.
func (c *Client) Post(ctx context.Context, route string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", route, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+strings.TrimLeft(route, "/"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", route, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.Debug("REMOTE: Sending request", "route", route, "request_id", requestID, "body_bytes", len(payload))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Route: route, Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("REMOTE: Response received",
		"route", route,
		"request_id", requestID,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteServiceError{
			Route:   route,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", route, err)
	}
	return nil
}

// errorMessage prefers the service's own message field, then error, then the
// raw body, then the status text.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		switch e := body.Error.(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if m, ok := e["message"].(string); ok && m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return http.StatusText(status)
}
