package retry

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
}

// WithBackoff executes operation with exponential backoff and jitter.
// Non-retryable errors (client-side HTTP failures) abort immediately.
func WithBackoff(ctx context.Context, cfg Config, operation func(context.Context) error) error {
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return fmt.Errorf("non-retryable error: %w", err)
		}

		if attempt == cfg.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxRetries+1, err)
		}

		delay := cfg.BaseDelay*time.Duration(1<<attempt) + time.Duration(rand.Int63n(int64(cfg.BaseDelay)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}

// isRetryableError determines if an error is worth retrying. Network-level
// failures and 5xx/429 responses retry; other 4xx responses do not.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// "status NNN" is our own API error format; "http error: NNN Reason"
	// is how gofeed reports a non-200 feed response.
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "status 429") ||
		strings.Contains(errStr, "http error: 5") ||
		strings.Contains(errStr, "http error: 429") {
		return true
	}

	if strings.Contains(errStr, "status 4") ||
		strings.Contains(errStr, "http error: 4") {
		return false
	}

	// Unknown errors retry; the attempt cap bounds the damage.
	return true
}

// HTTPStatusRetryable checks if an HTTP status code is retryable.
func HTTPStatusRetryable(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
