package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks a cache backend failure, typically redis being
// unreachable. A miss is never an error in this package; backends report
// misses through their (nil, false, nil) return.
var ErrBackend = errors.New("cache backend unavailable")

// RetryableError marks an error as transient: [RetryWithBackoff] retries
// it, everything else fails fast.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in its
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the wait between
// attempts starting at one second. Only errors marked with [Retryable] are
// retried. The redis backend marks its connection failures that way, so a
// brief network blip during startup does not force a run onto the file
// cache.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
