package errors_test

import (
	"errors"
	"strings"
	"testing"

	xe "github.com/kevintatou/sparktest/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("it keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("cause")
		err := xe.Wrap(cause)
		if !errors.Is(err, cause) {
			t.Errorf("wrapped error does not unwrap to cause: %v", err)
		}
	})

	t.Run("it records the function which wraps", func(t *testing.T) {
		err := xe.Wrap(errors.New("cause"))

		var ewc *xe.ErrWithCaller
		if !errors.As(err, &ewc) {
			t.Fatalf("unexpected type: %T", err)
		}
		if !strings.HasSuffix(ewc.Func(), "TestWrap.func2") {
			t.Errorf("unexpected funcname: %s", ewc.Func())
		}
		if !strings.HasSuffix(ewc.File(), "errors_test.go") {
			t.Errorf("unexpected file: %s", ewc.File())
		}
	})

	t.Run("it does not wrap nil", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("Wrap(nil) should be nil, but %v", err)
		}
		if err := xe.WrapWithNote("note", nil); err != nil {
			t.Errorf("WrapWithNote(_, nil) should be nil, but %v", err)
		}
	})

	t.Run("note is shown in message", func(t *testing.T) {
		err := xe.WrapWithNote("while testing", errors.New("cause"))
		if !strings.Contains(err.Error(), "(while testing) <- cause") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})
}
