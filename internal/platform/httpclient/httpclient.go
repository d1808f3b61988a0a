// Package httpclient provides the HTTP client shared by the web lookups:
// one-shot requests with a timeout, a fixed user agent, a capped body,
// an optional redirect policy and optional request pacing. Requests are
// never retried.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
)

// Client is a thin wrapper over http.Client tuned for recon requests.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout.
	// Default: 10 seconds
	Timeout time.Duration

	// UserAgent is the User-Agent header value.
	// Default: "Mozilla/5.0 (compatible; dossier/1.0)"
	UserAgent string

	// FollowRedirects makes the client follow up to 10 redirects.
	// When false the first response is returned as is.
	FollowRedirects bool

	// MaxBodyBytes caps how much of a body is read.
	// Default: 2 MiB
	MaxBodyBytes int64

	// RateLimit is the maximum requests per second.
	// 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int
}

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; dossier/1.0)"
	defaultMaxBody   = 2 << 20
	maxRedirects     = 10
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         defaultTimeout,
		UserAgent:       defaultUserAgent,
		FollowRedirects: true,
		MaxBodyBytes:    defaultMaxBody,
		RateLimitBurst:  1,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBody
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = 1
	}

	httpClient := &http.Client{Timeout: config.Timeout}
	if config.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	} else {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimitBurst)
	}

	return &Client{
		httpClient:  httpClient,
		rateLimiter: limiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Wait blocks until the rate limiter allows another request.
// Without a limiter it returns immediately.
func (c *Client) Wait(ctx context.Context) error {
	if c.rateLimiter == nil {
		return nil
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait failed")
	}
	return nil
}

// Fetch performs one request and reads the body up to MaxBodyBytes.
func (c *Client) Fetch(ctx context.Context, method, url string) (*Response, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "failed to create request for %s %s: %v", method, url, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("HTTP request failed",
			"method", method,
			"url", url,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read body of %s", url)
	}

	c.logger.Debug("HTTP response received",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Fetch(ctx, http.MethodGet, url)
}

// FetchFirst requests path on host with each scheme in order and returns the
// first response together with the base URL ("scheme://host") that produced
// it. Any HTTP status counts as reachable. When every scheme fails the
// error is errors.Unreachable over the per-scheme causes.
func (c *Client) FetchFirst(ctx context.Context, method, host, path string, schemes []string) (*Response, string, error) {
	if len(schemes) == 0 {
		schemes = []string{"https", "http"}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var errs []error
	for _, scheme := range schemes {
		base := fmt.Sprintf("%s://%s", scheme, host)
		resp, err := c.Fetch(ctx, method, base+path)
		if err == nil {
			return resp, base, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, "", errors.Unreachable(errs...)
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, follow_redirects=%t, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.FollowRedirects,
		c.config.RateLimit,
	)
}
