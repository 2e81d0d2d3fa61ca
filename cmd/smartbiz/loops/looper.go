package loops

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/cleanup"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/expire"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/notify"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	"github.com/smartbiz-gst/smartbiz/pkg/loop"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
	"github.com/sourcegraph/conc/pool"
)

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		c := log.New(l.Prefix())
		c.SetOutput(l.Output())
		c.SetLevel(l.Level())
		return c
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

// Wrapper for monitoring loop tasks
//
//	Log the start and end of each time a task is executed.
//	Errors and panics of the task are logged and swallowed,
//	so the loop waits for the next tick.
func monitor[T any](logger *log.Logger, task recurring.Task[T]) recurring.Task[T] {
	// counter for execution of the task
	var counter uint64
	return func(ctx context.Context, t T) (ret T, updated bool, err error) {
		counter += 1
		timestamp := time.Now()

		logger.Infof("task start: #0x%X", counter)

		defer func() {
			if r := recover(); r != nil {
				ret, updated, err = t, false, fmt.Errorf("panic: %v", r)
			}
			if err != nil {
				logger.Errorf("task failed: #0x%X (takes %s): %s", counter, time.Since(timestamp), err)
				err = nil
				return
			}
			logger.Infof(
				"task end: #0x%X (takes %s): updated = %v, with value = %+v",
				counter, time.Since(timestamp), updated, ret,
			)
		}()

		return task(ctx, t)
	}
}

// Manifest for starting a loop, which determines when the loop runs.
type LoopManifest struct {
	// Policy for the looping.
	Policy *recurring.CronPolicy

	// timeout for each run.
	Timeout time.Duration
}

func (m LoopManifest) options() []loop.LoopOption {
	if m.Timeout <= 0 {
		return nil
	}
	return []loop.LoopOption{loop.WithTimeout(m.Timeout)}
}

// Start expire loop.
//
// It runs at each tick of manifest.Policy until ctx is done.
func StartExpireLoop(
	ctx context.Context,
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[expire loop]"))
	_, err := loop.StartAfter(
		ctx, manifest.Policy.Until(), expire.Seed(),
		monitor(l, expire.Task(l, quickAdds, time.Now)).Applied(manifest.Policy),
		manifest.options()...,
	)
	return err
}

func StartCleanupLoop(
	ctx context.Context,
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	images cleanup.ImageRemover,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[cleanup loop]"))
	_, err := loop.StartAfter(
		ctx, manifest.Policy.Until(), cleanup.Seed(),
		monitor(l, cleanup.Task(l, quickAdds, images, time.Now)).Applied(manifest.Policy),
		manifest.options()...,
	)
	return err
}

func StartNotifyLoop(
	ctx context.Context,
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	notifier notify.Notifier,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[notify loop]"))
	_, err := loop.StartAfter(
		ctx, manifest.Policy.Until(), notify.Seed(),
		monitor(l, notify.Task(l, quickAdds, notifier, time.Now)).Applied(manifest.Policy),
		manifest.options()...,
	)
	return err
}

// Manifests for all loops.
type Manifests struct {
	Expire  LoopManifest
	Cleanup LoopManifest
	Notify  LoopManifest
}

// StartAll starts expire, cleanup and notify loops, and waits them.
//
// Returned error is joined errors of loops. Loops stop only when ctx is done,
// so it is usually context.Canceled.
func StartAll(
	ctx context.Context,
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	images cleanup.ImageRemover,
	notifier notify.Notifier,
	manifests Manifests,
) error {
	p := pool.New().WithErrors()
	p.Go(func() error {
		return StartExpireLoop(ctx, logger, quickAdds, manifests.Expire)
	})
	p.Go(func() error {
		return StartCleanupLoop(ctx, logger, quickAdds, images, manifests.Cleanup)
	})
	p.Go(func() error {
		return StartNotifyLoop(ctx, logger, quickAdds, notifier, manifests.Notify)
	})
	return p.Wait()
}

// RunOnce runs a task one time, out of the schedule.
func RunOnce[T any](ctx context.Context, seed T, task recurring.Task[T]) (T, error) {
	ret, _, err := task(ctx, seed)
	return ret, err
}

// RunWith runs a task repeatedly as policy tells. It stops at the first error.
func RunWith[T any](ctx context.Context, seed T, task recurring.Task[T], policy recurring.Policy) (T, error) {
	return loop.Start(ctx, seed, task.Applied(recurring.UntilError(policy)))
}
