// Package client implements marketplace.Service against the talktrade HTTP
// API. A Client carries its own session; Login stores the bearer token that
// every later call sends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// APIError is a non-2xx answer from the server. It unwraps to the matching
// marketplace sentinel so errors.Is works across the wire.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return marketplace.ErrorForCode(e.Code)
}

type Client struct {
	baseURL   string
	http      *http.Client
	session   *marketplace.Session
	attempts  int
	retryWait time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the total attempts for idempotent reads and the initial
// backoff, which doubles per attempt.
func WithRetry(attempts int, wait time.Duration) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.attempts = attempts
		c.retryWait = wait
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		session:   marketplace.NewSession(),
		attempts:  3,
		retryWait: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ marketplace.Service = (*Client)(nil)

func (c *Client) Session() *marketplace.Session {
	return c.session
}

// Resume restores a session from a token saved by an earlier Login.
func (c *Client) Resume(ctx context.Context, token string) (*marketplace.User, error) {
	var u marketplace.User
	if err := c.send(ctx, http.MethodGet, "/api/users/me", nil, token, &u); err != nil {
		return nil, err
	}
	c.session.Begin(&u, token)
	return &u, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, token string, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.attempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.do(ctx, method, path, payload, token, out)
		if err == nil || !retryable(err) {
			return err
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		backoff := time.Duration(float64(c.retryWait) * math.Pow(2, float64(attempt-1)))
		logger.Warn("api request failed, retrying", "method", method, "path", path, "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, token string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Code = eb.Code
			apiErr.Message = eb.Error
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// retryable reports transport failures and 5xx answers; context
// cancellation is final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

// call sends with the session token. A 401 on an authenticated call means
// the token is stale, so the session ends.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	token := c.session.Token()
	err := c.send(ctx, method, path, body, token, out)
	if token != "" && errors.Is(err, marketplace.ErrUnauthenticated) {
		c.session.End()
	}
	return err
}

// authed fails fast when nobody is signed in.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	if c.session.Token() == "" {
		return marketplace.ErrUnauthenticated
	}
	return c.call(ctx, method, path, body, out)
}

func escape(id string) string {
	return url.PathEscape(id)
}

func gigQuery(f marketplace.GigFilter) string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Min != nil {
		q.Set("min", strconv.FormatInt(*f.Min, 10))
	}
	if f.Max != nil {
		q.Set("max", strconv.FormatInt(*f.Max, 10))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
