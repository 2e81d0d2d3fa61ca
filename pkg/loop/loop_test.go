package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/loop"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/try"
)

func countUpTo(limit int, err error) loop.Task[int] {
	return func(_ context.Context, n int) (int, loop.Next) {
		if limit <= n+1 {
			return n + 1, loop.Break(err)
		}
		return n + 1, loop.Continue(0)
	}
}

func TestStart_Break(t *testing.T) {
	fakeErr := errors.New("fake")

	type when struct {
		seed int
		task loop.Task[int]
	}
	type then struct {
		value int
		err   error
	}

	for name, testcase := range map[string]struct {
		when
		then
	}{
		"break without error": {
			when{seed: 1, task: countUpTo(10, nil)},
			then{value: 10},
		},
		"break with error": {
			when{seed: 1, task: countUpTo(10, fakeErr)},
			then{value: 10, err: fakeErr},
		},
		"break at the first run": {
			when{seed: 41, task: countUpTo(0, nil)},
			then{value: 42},
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual, err := loop.Start(context.Background(), testcase.when.seed, testcase.when.task)
			if !errors.Is(err, testcase.then.err) {
				t.Errorf("error: actual = %v, expected = %v", err, testcase.then.err)
			}
			if actual != testcase.then.value {
				t.Errorf("value: actual = %d, expected = %d", actual, testcase.then.value)
			}
		})
	}
}

func TestStart_Context(t *testing.T) {
	t.Run("it repeats with interval until the context is done", func(t *testing.T) {
		period := 10 * time.Millisecond
		ctx, cancel := context.WithTimeout(context.Background(), 10*period)
		defer cancel()

		actual, err := loop.Start(ctx, 0, func(_ context.Context, n int) (int, loop.Next) {
			return n + 1, loop.Continue(period)
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual < 2 || 11 < actual {
			t.Errorf("task ran %d times", actual)
		}
	})

	t.Run("it returns the seed when the context is done before starting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		actual, err := loop.Start(ctx, 1, countUpTo(10, nil))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual != 1 {
			t.Errorf("task ran: %d", actual)
		}
	})

	t.Run("WithTimeout sets a fresh deadline on each run", func(t *testing.T) {
		timeout := 100 * time.Millisecond
		deadlines := []time.Time{}

		try.To(loop.Start(
			context.Background(), 0,
			func(ctx context.Context, n int) (int, loop.Next) {
				deadline, ok := ctx.Deadline()
				if !ok {
					t.Fatal("deadline is not set")
				}
				if timeout < time.Until(deadline) {
					t.Errorf("deadline is too far: %s", deadline)
				}
				deadlines = append(deadlines, deadline)
				if 2 <= n {
					return n + 1, loop.Break(nil)
				}
				return n + 1, loop.Continue(10 * time.Millisecond)
			},
			loop.WithTimeout(timeout),
		)).OrFatal(t)

		for i := 1; i < len(deadlines); i++ {
			if !deadlines[i-1].Before(deadlines[i]) {
				t.Errorf("deadline is not renewed: %v", deadlines)
			}
		}
	})

	t.Run("without WithTimeout, runs have no deadline", func(t *testing.T) {
		try.To(loop.Start(
			context.Background(), 0,
			func(ctx context.Context, n int) (int, loop.Next) {
				if deadline, ok := ctx.Deadline(); ok {
					t.Errorf("deadline is set: %s", deadline)
				}
				return n, loop.Break(nil)
			},
		)).OrFatal(t)
	})
}

func TestStartAfter(t *testing.T) {
	t.Run("it waits before the first run", func(t *testing.T) {
		delay := 50 * time.Millisecond
		before := time.Now()
		var firstRun time.Time

		try.To(loop.StartAfter(
			context.Background(), delay, 0,
			func(_ context.Context, n int) (int, loop.Next) {
				firstRun = time.Now()
				return n + 1, loop.Break(nil)
			},
		)).OrFatal(t)

		if firstRun.Sub(before) < delay {
			t.Errorf("task started too early: %s", firstRun.Sub(before))
		}
	})

	t.Run("it does not run the task when the context is done while waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		called := false
		actual, err := loop.StartAfter(ctx, time.Hour, 1, func(_ context.Context, n int) (int, loop.Next) {
			called = true
			return n + 1, loop.Break(nil)
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
		if called || actual != 1 {
			t.Errorf("task is called: (called, actual) = (%v, %d)", called, actual)
		}
	})
}

func TestNext_String(t *testing.T) {
	for name, testcase := range map[string]struct {
		when loop.Next
		then string
	}{
		"continue":         {when: loop.Continue(time.Second), then: "[continue] interval: 1s"},
		"break":            {when: loop.Break(nil), then: "[break] without error"},
		"break with error": {when: loop.Break(errors.New("boom")), then: "[break] with error: boom"},
		"zero value":       {when: loop.Next{}, then: "[continue] interval: 0s"},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := testcase.when.String(); actual != testcase.then {
				t.Errorf("actual = %q, expected = %q", actual, testcase.then)
			}
		})
	}
}
