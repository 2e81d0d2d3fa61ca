// Package retry calls a function until it gives up retrying.
//
// smartbiz uses it to wait for the database at start-up.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry tells Blocking to call the function again.
var ErrRetry = errors.New("retry")

// Backoff blocks until the next try.
//
// It returns nil to allow the next try, or an error to give up
// (ctx.Err() when ctx is done).
type Backoff func(context.Context) error

// StaticBackoff waits interval between tries.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initial for the first time,
// and r times as long as the last wait after that.
func ExponentialBackoff(initial time.Duration, r float64) Backoff {
	wait := initial
	return func(ctx context.Context) error {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		wait = time.Duration(float64(wait) * r)
		return nil
	}
}

// Blocking calls f, and calls it again after b while f returns ErrRetry.
//
// The first call is made without waiting.
// It returns what f returned last, or the error of b when b gives up.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	for {
		last, err := f()
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, berr
		}
	}
}
