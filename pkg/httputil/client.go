package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/nflepa/pkg/config"
	"github.com/wonny/nflepa/pkg/logger"
	"github.com/wonny/nflepa/pkg/redis"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "nflepa/1.0"
)

// Backoff controls retries of transient failures: transport errors,
// 5xx and 429. Delays double from Base up to Cap.
type Backoff struct {
	Retries int
	Base    time.Duration
	Cap     time.Duration
}

// StatusError is returned by GetBody for non-2xx responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Client downloads nflverse assets. Every request passes a local token
// bucket, then an optional Redis budget shared across processes.
// ⭐ SSOT: every outbound request goes through this client
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	backoff    Backoff
	throttle   *rate.Limiter
	shared     *redis.RateLimiter
	sharedCfg  redis.RateLimitConfig
}

// New builds a client from HTTP_TIMEOUT, HTTP_MAX_RETRIES and HTTP_RATE_PER_SEC
// ⭐ SSOT: http.Client instances are only built here
func New(cfg *config.Config, log *logger.Logger) *Client {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithField("module", "httputil"),
		backoff: Backoff{
			Retries: max(cfg.HTTP.MaxRetries, 0),
			Base:    time.Second,
			Cap:     10 * time.Second,
		},
	}
	if cfg.HTTP.RatePerSec > 0 {
		c.throttle = rate.NewLimiter(rate.Limit(cfg.HTTP.RatePerSec), 1)
	}
	return c
}

// WithBackoff replaces the retry policy
func (c *Client) WithBackoff(b Backoff) *Client {
	c.backoff = b
	return c
}

// NoRetry makes every request single-shot
func (c *Client) NoRetry() *Client {
	c.backoff.Retries = 0
	return c
}

// WithSharedLimit adds a Redis-backed budget on top of the local throttle
func (c *Client) WithSharedLimit(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.shared = limiter
	c.sharedCfg = cfg
	return c
}

// Get performs a GET with retries; the caller closes the body
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	start := time.Now()

	resp, err := c.getWithRetry(ctx, url)
	fields := logger.Fields{"url": url, "duration": time.Since(start).String()}
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("HTTP request failed")
		return nil, err
	}

	fields["status_code"] = resp.StatusCode
	c.logger.WithFields(fields).Debug("HTTP request completed")
	return resp, nil
}

// GetBody returns the full body of a 2xx response; other statuses
// become a *StatusError
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

func (c *Client) getWithRetry(ctx context.Context, url string) (*http.Response, error) {
	delay := c.backoff.Base

	for attempt := 0; ; attempt++ {
		resp, err := c.once(ctx, url)
		if err == nil && !Retryable(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= c.backoff.Retries || ctx.Err() != nil {
			return resp, err
		}

		wait := delay
		if err == nil {
			wait = retryAfter(resp, delay, c.backoff.Cap)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		c.logger.WithFields(logger.Fields{
			"attempt": attempt + 1,
			"delay":   wait.String(),
			"url":     url,
		}).Warn("Retrying HTTP request")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if c.backoff.Cap > 0 && delay > c.backoff.Cap {
			delay = c.backoff.Cap
		}
	}
}

// once waits for both rate limits and sends a single request
func (c *Client) once(ctx context.Context, url string) (*http.Response, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if c.shared != nil {
		if err := c.shared.Wait(ctx, c.sharedCfg); err != nil {
			return nil, fmt.Errorf("shared rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	return c.httpClient.Do(req)
}

// Retryable reports whether a status is worth another attempt
func Retryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// retryAfter honors a Retry-After header given in seconds, never
// shorter than fallback and never longer than limit (when set)
func retryAfter(resp *http.Response, fallback, limit time.Duration) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return fallback
	}
	d := time.Duration(secs) * time.Second
	if limit > 0 && d > limit {
		d = limit
	}
	return max(d, fallback)
}
