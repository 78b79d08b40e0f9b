package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevintatou/sparktest/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	t.Run("it retries while ErrRetry is returned", func(t *testing.T) {
		count := 0
		v, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func() (int, error) {
				count += 1
				if count < 3 {
					return count, retry.ErrRetry
				}
				return count, nil
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		if v != 3 {
			t.Errorf("unexpected value: %d", v)
		}
	})

	t.Run("it stops with other errors", func(t *testing.T) {
		expected := errors.New("fake error")
		count := 0
		_, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func() (int, error) {
				count += 1
				return 0, expected
			},
		)
		if !errors.Is(err, expected) {
			t.Errorf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("f is called %d times", count)
		}
	})

	t.Run("it stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Blocking(
			ctx, retry.StaticBackoff(time.Hour),
			func() (int, error) { return 0, retry.ErrRetry },
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestGo(t *testing.T) {
	t.Run("it delivers the result", func(t *testing.T) {
		p := retry.Go(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func() (string, error) { return "done", nil },
		)
		v, err := p.Await(context.Background())
		if err != nil || v != "done" {
			t.Errorf("unexpected: (%s, %v)", v, err)
		}
	})

	t.Run("it delivers panic as error", func(t *testing.T) {
		p := retry.Go(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func() (string, error) { panic("boom") },
		)
		if _, err := p.Await(context.Background()); err == nil {
			t.Error("expected error, but nil")
		}
	})
}
