package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context which is cancelled once any of paths
// is written, created, removed or renamed. Empty paths are ignored.
//
// The cause of the cancellation (context.Cause) names the file and the
// operation. An error from the watcher also cancels the context, with the error as the cause.
//
// On error, both returned context and cancel func are nil.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			w.Close()
			cancel(err)
			return nil, nil, err
		}
	}

	go func() {
		defer w.Close()
		watch(cctx, cancel, w.Events, w.Errors)
	}()

	return cctx, func() { cancel(nil) }, nil
}

// watch blocks until ctx is done, or cancels it on the first notable event or error.
func watch(ctx context.Context, cancel context.CancelCauseFunc, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			cancel(fmt.Errorf("%s is updated (%s)", ev.Name, ev.Op.String()))
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			cancel(fmt.Errorf("watching files: %w", err))
			return
		}
	}
}
