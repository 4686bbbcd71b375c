// Package sparql provides a small client for the SPARQL-over-HTTP endpoints
// the heritage datasets live behind. Requests are rate limited per endpoint
// and transient failures are retried with exponential backoff; the endpoints
// are public services with strict rate limits and occasional hiccups.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Binding is one SPARQL result row: variable name to plain string value.
// The endpoints return format=json results as a bare array of such objects.
type Binding map[string]string

// Error is returned when a query failed for good after retries. StatusCode
// is zero for transport-level failures.
type Error struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sparql query to %s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("sparql query to %s failed: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ClientConfig configures a Client.
type ClientConfig struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is requests per second; RateBurst the burst size.
	RateLimit float64
	RateBurst int
	// Transport allows injecting a custom HTTP transport (for tests).
	Transport http.RoundTripper
}

// Client posts queries to a single SPARQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a client for the given endpoint, filling in defaults for
// unset fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}
	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		maxRetries: cfg.MaxRetries,
	}
}

// Endpoint returns the endpoint URL this client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// Select executes the query and returns the result rows. Transient failures
// (connection errors, 5xx, 429) are retried up to MaxRetries times; the
// RateLimit-Reset header on a 429 response is honored before retrying.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Endpoint: c.endpoint, Err: err}
		}

		rows, retryAfter, err := c.selectOnce(ctx, query)
		if err == nil {
			return rows, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		wait := backoff(attempt)
		if retryAfter > wait {
			wait = retryAfter
		}
		select {
		case <-ctx.Done():
			return nil, &Error{Endpoint: c.endpoint, Err: ctx.Err()}
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (c *Client) selectOnce(ctx context.Context, query string) (rows []Binding, retryAfter time.Duration, err error) {
	form := url.Values{
		"query":  {query},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, &Error{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &Error{Endpoint: c.endpoint, Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		reset := time.Second
		if v := resp.Header.Get("RateLimit-Reset"); v != "" {
			if secs, perr := strconv.Atoi(v); perr == nil {
				reset = time.Duration(secs) * time.Second
			}
		}
		return nil, reset, &Error{Endpoint: c.endpoint, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= 400 {
		return nil, 0, &Error{Endpoint: c.endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, 0, &Error{Endpoint: c.endpoint, Err: fmt.Errorf("decode result: %w", err)}
	}
	return rows, 0, nil
}

// isRetryable reports whether the error is worth another attempt: transport
// failures, rate limiting and server-side errors are; client errors are not.
func isRetryable(err error) bool {
	qerr, ok := err.(*Error)
	if !ok {
		return false
	}
	if qerr.StatusCode == 0 {
		return true // transport failure
	}
	return qerr.StatusCode == http.StatusTooManyRequests || qerr.StatusCode >= 500
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
}
