// Package retry runs a function until it stops asking for a retry.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetry is returned by a retried function to ask for one more try.
var ErrRetry = errors.New("retry")

// Backoff blocks until the next try may start.
//
// It returns ctx.Err() when ctx is done before that.
type Backoff func(context.Context) error

// StaticBackoff waits for interval on every call.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initial * r^N on the N-th call (N = 0, 1, ...).
func ExponentialBackoff(initial time.Duration, r float64) Backoff {
	interval := initial
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			return nil
		}
	}
}

// Blocking calls f after each backoff, until f returns nil or an error
// other than ErrRetry.
//
// It returns the last value from f, and its error (or the backoff's error).
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
	}
}

type Result[T any] struct {
	Value T
	Err   error
}

// Promise yields exactly one Result, then is closed.
type Promise[T any] <-chan Result[T]

// Await waits for the result, or ctx.
func (p Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		return *new(T), ctx.Err()
	case r, ok := <-p:
		if !ok {
			return *new(T), errors.New("promise is closed without result")
		}
		return r.Value, r.Err
	}
}

func Failed[T any](err error) Promise[T] {
	ch := make(chan Result[T], 1)
	ch <- Result[T]{Err: err}
	close(ch)
	return ch
}

func Ok[T any](value T) Promise[T] {
	ch := make(chan Result[T], 1)
	ch <- Result[T]{Value: value}
	close(ch)
	return ch
}

// Go runs Blocking(ctx, b, f) in a new goroutine.
//
// A panic in f is delivered as an error.
func Go[T any](ctx context.Context, b Backoff, f func() (T, error)) Promise[T] {
	ch := make(chan Result[T], 1)

	go func() {
		defer close(ch)
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%+v", r)
			}
			ch <- Result[T]{Err: err}
		}()

		ret, err := Blocking(ctx, b, f)
		ch <- Result[T]{Value: ret, Err: err}
	}()

	return ch
}
