// Package bag talks to the BAG individuele bevragingen v2 API. It is used
// only by the successor fallback: when a unit identifier is unknown to both
// heritage datasets, the address registry can name the currently valid
// identifier for the same physical address.
package bag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// errNotFound marks a 404 from the registry; callers treat it as "no data"
// rather than a failure.
var errNotFound = errors.New("not found")

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	RateBurst  int
	// Transport allows injecting a custom HTTP transport (for tests).
	Transport http.RoundTripper
}

// Client is a rate-limited, retrying client for the BAG API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a BAG client, filling in defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10.0
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 2
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		maxRetries: cfg.MaxRetries,
	}
}

// getJSON performs a GET against the API with retry and decodes the HAL+JSON
// response into target.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, retryAfter, err := c.getOnce(ctx, path, query)
		if err == nil {
			if err := json.Unmarshal(body, target); err != nil {
				return fmt.Errorf("decode %s response: %w", path, err)
			}
			return nil
		}
		lastErr = err

		var serr *statusError
		switch {
		case errors.Is(err, errNotFound):
			return err
		case errors.As(err, &serr) && serr.code < 500 && serr.code != http.StatusTooManyRequests:
			return err
		}

		wait := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
		if retryAfter > wait {
			wait = retryAfter
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

type statusError struct{ code int }

func (e *statusError) Error() string {
	return fmt.Sprintf("bag api returned status %d", e.code)
}

func (c *Client) getOnce(ctx context.Context, path string, query url.Values) (body []byte, retryAfter time.Duration, err error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/hal+json")
	req.Header.Set("Accept-Crs", "epsg:28992")
	req.Header.Set("Content-Crs", "epsg:28992")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, 0, fmt.Errorf("%s: %w", path, errNotFound)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		reset := time.Second
		if v := resp.Header.Get("RateLimit-Reset"); v != "" {
			if secs, perr := strconv.Atoi(v); perr == nil {
				reset = time.Duration(secs) * time.Second
			}
		}
		return nil, reset, &statusError{code: resp.StatusCode}
	}
	if resp.StatusCode >= 400 {
		return nil, 0, &statusError{code: resp.StatusCode}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, 0, nil
}
