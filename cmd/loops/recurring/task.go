package recurring

import (
	"context"

	"github.com/kevintatou/sparktest/pkg/loop"
)

// Task is a body of a loop which reports whether it has done something.
//
// Return:
//
// - T : same as return value T of loop.Task[T]
//
// - bool : true when this task do something in this cycle, and more backlog can be.
// otherwise false.
//
// - error : same as err of loop.Break(err)
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied makes loop.Task which runs rt and decides next with p.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, t T) (T, loop.Next) {
		new, ok, err := rt(ctx, t)
		return new, p.Next(ok, err)
	}
}
