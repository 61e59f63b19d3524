// Package api is the HTTP client for the My Book Connect backend: the
// credential and profile endpoints the session manager drives, plus the
// catalog surface (books, authors, library entries, reviews) presentation
// code reads. It maps the backend's answers onto the session error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mybookconnect/go-session"
)

const defaultTimeout = 15 * time.Second

// requestIDHeader carries the per-request correlation ID.
const requestIDHeader = "X-Request-ID"

// Client talks to one backend deployment.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     session.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the http.Client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger session.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for the given base URL, e.g.
// "https://api.mybookconnect.example/api/v1".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse baseURL: %w", err)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

var _ session.Backend = (*Client)(nil)

// endpoint joins the base URL with a path and query values.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do issues a request. A non-empty token is attached as a bearer credential.
// Transport failures come back as network errors; status handling is the
// caller's job.
func (c *Client) do(ctx context.Context, op, method, rawURL, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, session.NewNetworkError(op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, session.NewNetworkError(op, err)
	}
	return resp, nil
}

// doJSON marshals payload and issues the request.
func (c *Client) doJSON(ctx context.Context, op, method, rawURL, token string, payload any) (*http.Response, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, session.NewNetworkError(op, err)
	}
	return c.do(ctx, op, method, rawURL, token, "application/json", buf)
}

// decode parses a 2xx body into out.
func decode(op string, resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return session.NewMalformedError(op, err)
	}
	return nil
}

// statusError maps a non-2xx answer from an authenticated endpoint onto the
// session taxonomy: 401/403 is a token rejection, 400 carries per-field
// rejections, anything else is reported as a failed operation.
func (c *Client) statusError(op string, resp *http.Response) error {
	detail, fields := decodeErrorBody(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return session.ErrUnauthorized.Clone().WithMetadata(map[string]any{
			"op":     op,
			"status": resp.StatusCode,
			"detail": detail,
		})
	case resp.StatusCode == http.StatusBadRequest && len(fields) > 0:
		return session.NewValidationError(detail, fields)
	default:
		if c.logger != nil {
			c.logger.Warn("%s: unexpected status %d (%s)", op, resp.StatusCode, detail)
		}
		return session.NewNetworkError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
