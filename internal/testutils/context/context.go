package context

import (
	"context"
	"testing"
	"time"
)

// margin left before the test deadline for cleanups.
const margin = time.Second

// WithTest bounds ctx by the deadline of t.
//
// The returned context is also cancelled when t finishes.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	var cancel context.CancelFunc
	if deadline, ok := t.Deadline(); ok {
		ctx, cancel = context.WithDeadline(ctx, deadline.Add(-margin))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	t.Cleanup(cancel)
	return ctx, cancel
}
