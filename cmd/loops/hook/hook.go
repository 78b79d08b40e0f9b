package hook

import (
	"context"
	"errors"
)

// Hook is called around a change of a run.
type Hook[T any, R any] interface {
	// Before is called before the value T is processed.
	//
	// When it returns error, the change should not happen.
	Before(context.Context, T) (R, error)

	// After is called after the value T is processed.
	After(context.Context, T) error
}

var ErrHookFailed = errors.New("hook failed")
