package recurring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevintatou/sparktest/cmd/loops/recurring"
	"github.com/kevintatou/sparktest/pkg/loop"
)

func TestParsePolicy(t *testing.T) {
	for name, testcase := range map[string]struct {
		when        string
		then        recurring.Policy
		expectError bool
	}{
		"forever means forever": {
			when: "forever",
			then: recurring.Forever(0),
		},
		"forever:1h means forever with cooldown an hour": {
			when: "forever:1h",
			then: recurring.Forever(time.Hour),
		},
		"forever:someday can not be parsed (someday is not time.Duration)": {
			when:        "forever:someday",
			expectError: true,
		},
		"forever:-1s can not be parsed": {
			when:        "forever:-1s",
			expectError: true,
		},
		"backlog means backlog": {
			when: "backlog",
			then: recurring.Backlog(),
		},
		"backlog:param can not be parsed (it should not take any parameters)": {
			when:        "backlog:param",
			expectError: true,
		},
		"empty string can not be parsed": {
			when:        "",
			expectError: true,
		},
		"unknown policy can not be parsed": {
			when:        "???????unknown??????",
			expectError: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual, err := recurring.ParsePolicy(testcase.when)

			if testcase.expectError {
				if err == nil {
					t.Fatal("expected error does not occured")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if actual != testcase.then {
				t.Errorf("unmatch: (actual, expected) = (%v, %v)", actual, testcase.then)
			}
		})
	}
}

func TestPolicy_Next(t *testing.T) {
	fake := errors.New("fake")

	for name, testcase := range map[string]struct {
		policy  recurring.Policy
		updated bool
		err     error
		then    loop.Next
	}{
		"forever continues without cooldown while updated": {
			policy: recurring.Forever(time.Hour), updated: true,
			then: loop.Continue(0),
		},
		"forever waits cooldown when nothing is done": {
			policy: recurring.Forever(time.Hour), updated: false,
			then: loop.Continue(time.Hour),
		},
		"backlog continues while updated": {
			policy: recurring.Backlog(), updated: true,
			then: loop.Continue(0),
		},
		"backlog breaks when nothing is done": {
			policy: recurring.Backlog(), updated: false,
			then: loop.Break(nil),
		},
		"until error breaks with error": {
			policy: recurring.UntilError(recurring.Forever(time.Hour)), updated: true, err: fake,
			then: loop.Break(fake),
		},
		"until error follows base policy without error": {
			policy: recurring.UntilError(recurring.Forever(time.Hour)), updated: false,
			then: loop.Continue(time.Hour),
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := testcase.policy.Next(testcase.updated, testcase.err)
			if actual.String() != testcase.then.String() {
				t.Errorf("(actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestTask_Applied(t *testing.T) {
	ctx := context.Background()
	calls := 0
	task := recurring.Task[int](func(ctx context.Context, v int) (int, bool, error) {
		calls += 1
		return v + 1, v < 3, nil
	})

	last, err := loop.Start(ctx, 0, task.Applied(recurring.Backlog()))
	if err != nil {
		t.Fatal(err)
	}
	if last != 4 || calls != 4 {
		t.Errorf("(last, calls) = (%d, %d)", last, calls)
	}
}
