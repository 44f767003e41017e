package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// RetryPolicy configures retry behavior for failed page fetches.
type RetryPolicy struct {
	MaxRetries int           // Maximum number of retries (2 = 3 total attempts)
	BaseDelay  time.Duration // Initial backoff delay
	MaxDelay   time.Duration // Maximum backoff cap
}

// DefaultRetryPolicy returns 2 retries (3 attempts), a 1s base delay and a
// 30s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// fetchWithRetry wraps fetchPage with exponential backoff. It retries
// transient failures (network errors, 5xx, 429) but not client errors or
// cancellation. observe, when non-nil, is called with the duration of every
// attempt.
func fetchWithRetry(ctx context.Context, client *http.Client, pageURL string, cfg Config, observe func(time.Duration)) pageResult {
	policy := cfg.RetryPolicy
	backoff := policy.BaseDelay
	var last pageResult
	attempts := 0

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				if last.Err == nil {
					last.Err = ctx.Err()
				}
				return last
			case <-timer.C:
				backoff = min(backoff*2, policy.MaxDelay)
			}
		}

		attempts++
		start := time.Now()
		last = fetchPage(ctx, client, pageURL, cfg)
		if observe != nil {
			observe(time.Since(start))
		}

		if last.Err == nil || !shouldRetry(last) {
			return last
		}
	}

	last.Err = fmt.Errorf("%w (after %d attempts)", last.Err, attempts)
	return last
}

// shouldRetry reports whether a failed fetch is worth another attempt.
func shouldRetry(res pageResult) bool {
	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return true
	case res.StatusCode >= 500:
		return true
	case res.StatusCode >= 400:
		return false
	}
	return isRetryableError(res.Err)
}

// isRetryableError checks if a transport error is transient.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout || !dnsErr.IsNotFound
	}

	// Covers timeouts, refused and reset connections.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
