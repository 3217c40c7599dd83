package ai

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"
)

const (
	maxRetries    = 3
	retryBaseWait = 1 * time.Second
)

// apiError carries the HTTP status from a failed provider call so the retry
// loop can distinguish transient from permanent failures.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return http.StatusText(e.status) + ": " + e.body
}

func (e *apiError) StatusCode() int { return e.status }

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

// withRetry runs f up to maxRetries times with exponential backoff and
// jitter, retrying only on transient HTTP statuses.
func withRetry(ctx context.Context, f func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(retryBaseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		if err := f(); err != nil {
			lastErr = err
			if apiErr, ok := err.(*apiError); ok && !shouldRetry(apiErr.StatusCode()) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}
