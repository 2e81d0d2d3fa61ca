package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// ModifiedError is the cause of contexts cancelled by a file modification.
type ModifiedError struct {
	Path string
	Op   fsnotify.Op
}

func (m *ModifiedError) Error() string {
	return fmt.Sprintf("%s is modified (%s)", m.Path, m.Op)
}

// UntilModifyContext returns a context that is cancelled when one of target files
// is written, created, removed or renamed.
//
// Changes only in file mode are ignored. Empty paths are skipped.
//
// # Returns
//
// - context.Context: cancelled on modification. context.Cause(ctx) is *ModifiedError then.
//
// - func(): stop watching and cancel the context.
//
// - error: when it fails to start watching. The others are nil then.
func UntilModifyContext(ctx context.Context, targetFilePath ...string) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, f := range targetFilePath {
		if f == "" {
			continue
		}
		if err := w.Add(f); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				cancel(&ModifiedError{Path: event.Name, Op: event.Op})
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
