package recurring

import (
	"context"

	"github.com/smartbiz-gst/smartbiz/pkg/loop"
)

// Task runs one cycle.
//
// It returns the value for the next cycle, whether it changed anything
// (for example, a sweep which touched one or more listings), and the error of the cycle.
// Whether an error stops the loop is up to the Policy.
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied makes a loop.Task which asks p what to do after each cycle.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, value T) (T, loop.Next) {
		next, changed, err := rt(ctx, value)
		return next, p.Next(changed, err)
	}
}
