package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Doer is the subset of *http.Client used by upstream repositories.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Client throttles outgoing requests and retries transport failures and 5xx
// responses a bounded number of times.
type Client struct {
	doer       Doer
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func New(cfg Config) *Client {
	return NewWithDoer(&http.Client{Timeout: cfg.Timeout}, cfg)
}

func NewWithDoer(doer Doer, cfg Config) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		doer:       doer,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    cfg.RetryBackoff,
	}
}

// Do sends req. Only requests without a body are retried.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		resp, err = c.doer.Do(req)
		if ctx.Err() != nil || !retryable(resp, err) || attempt >= c.maxRetries || req.Body != nil {
			return resp, err
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if err := sleep(ctx, c.backoff<<attempt); err != nil {
			return nil, err
		}
	}
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
