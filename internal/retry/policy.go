// Package retry re-runs transient file-system operations with a fixed backoff.
package retry

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// Policy describes how often and how long to wait before retrying.
// It is immutable after construction.
type Policy struct {
	MaxRetries int           // retries after the first failure
	Backoff    time.Duration // fixed delay between attempts
}

// DefaultPolicy retries once after 50ms: inputs are static files, so a
// second failure is treated as permanent.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 1, Backoff: 50 * time.Millisecond}
}

// NoRetry runs the operation exactly once.
func NoRetry() Policy {
	return Policy{}
}

// Do runs fn until it succeeds, returns a permanent error, or retries are
// exhausted. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= p.MaxRetries {
			return err
		}
		if p.Backoff <= 0 {
			continue
		}

		timer := time.NewTimer(p.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// IsTransient reports whether retrying err could plausibly succeed.
// Missing files, permission problems, invalid arguments and cancellation
// are permanent.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrInvalid),
		errors.Is(err, fs.ErrExist),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
