// Package loop runs a task repeatedly, carrying a value from one run to the next.
//
// Sweeps of quick adds are built on this:
// a task sweeps once, then tells the loop when to come back with Continue,
// or stops the loop with Break.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next is what a task wants the loop to do after it.
//
// The zero value is Continue(0).
type Next struct {
	stop     bool
	err      error
	interval time.Duration
}

func (n Next) String() string {
	switch {
	case n.err != nil:
		return fmt.Sprintf("[break] with error: %v", n.err)
	case n.stop:
		return "[break] without error"
	default:
		return fmt.Sprintf("[continue] interval: %s", n.interval)
	}
}

// Interval before the next run. Meaningless for Break.
func (n Next) Interval() time.Duration {
	return n.interval
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. err (can be nil) is returned from Start.
func Break(err error) Next {
	return Next{stop: true, err: err}
}

// Task is the body of a loop.
//
// It receives the value returned from the previous run (or the seed for the first run).
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task until it breaks or ctx is done.
//
// It returns the value of the last run together with
// the error of Break, or ctx.Err() when ctx is done.
// When ctx is done before the first run, seed is returned as it is.
//
// Counting up to 10:
//
//	n, err := Start(ctx, 1, func(_ context.Context, n int) (int, Next) {
//		if 10 <= n {
//			return n, Break(nil)
//		}
//		return n + 1, Continue(0)
//	})
func Start[T any](ctx context.Context, seed T, task Task[T], options ...LoopOption) (T, error) {
	return StartAfter(ctx, 0, seed, task, options...)
}

// StartAfter is Start with the first run delayed.
func StartAfter[T any](ctx context.Context, delay time.Duration, seed T, task Task[T], options ...LoopOption) (T, error) {
	value := seed
	if err := sleep(ctx, delay); err != nil {
		return value, err
	}

	for {
		v, next := runOnce(ctx, value, task, options)
		if next.stop || next.err != nil {
			return v, next.err
		}
		value = v

		if err := sleep(ctx, next.interval); err != nil {
			return value, err
		}
	}
}

func runOnce[T any](ctx context.Context, value T, task Task[T], options []LoopOption) (T, Next) {
	lc := &loopConfig{ctx: ctx}
	for _, opt := range options {
		lc = opt(lc)
	}
	if lc.release != nil {
		defer lc.release()
	}
	return task(lc.ctx, value)
}

// sleep for d. It returns ctx.Err() when ctx is done, even if d is not positive.
func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type loopConfig struct {
	ctx     context.Context
	release func()
}

// LoopOption tweaks the context for each run.
type LoopOption func(*loopConfig) *loopConfig

// WithTimeout gives each run its own deadline, d after the run starts.
func WithTimeout(d time.Duration) LoopOption {
	return func(lc *loopConfig) *loopConfig {
		ctx, cancel := context.WithTimeout(lc.ctx, d)
		outer := lc.release
		return &loopConfig{
			ctx: ctx,
			release: func() {
				cancel()
				if outer != nil {
					outer()
				}
			},
		}
	}
}
