package context

import (
	"context"
	"testing"
	"time"
)

// WithTest derives a context which ends 1 second before the deadline of t,
// leaving time for cleanups such as dropping test schemas.
func WithTest(ctx context.Context, t *testing.T) (context.Context, func()) {
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(ctx, deadline.Add(-time.Second))
	}
	return ctx, func() {}
}
