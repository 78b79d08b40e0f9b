package hook

import (
	"context"
	"errors"
)

// Func is a hook that calls functions before and after processing the value T.
type Func[T any, R any] struct {
	// BeforeFn is called before processing the value T. nil is skipped.
	BeforeFn func(T) (R, error)

	// AfterFn is called after processing the value T. nil is skipped.
	AfterFn func(T) error
}

func (f Func[T, R]) Before(_ context.Context, value T) (R, error) {
	if f.BeforeFn == nil {
		return *new(R), nil
	}
	ret, err := f.BeforeFn(value)
	if err != nil {
		return ret, errors.Join(err, ErrHookFailed)
	}
	return ret, nil
}

func (f Func[T, R]) After(_ context.Context, value T) error {
	if f.AfterFn == nil {
		return nil
	}
	if err := f.AfterFn(value); err != nil {
		return errors.Join(err, ErrHookFailed)
	}
	return nil
}
