package executors_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/kevintatou/sparktest/pkg/api/types/executors"
)

func TestCommand_UnmarshalJSON(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then executors.Command
	}{
		"string is a single entry": {
			when: `"pytest -v"`,
			then: executors.Command{"pytest -v"},
		},
		"empty string is empty": {
			when: `""`,
			then: executors.Command{},
		},
		"array is as is": {
			when: `["go", "test"]`,
			then: executors.Command{"go", "test"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := executors.Command{}
			if err := json.Unmarshal([]byte(testcase.when), &actual); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(actual, testcase.then) {
				t.Errorf("(actual, expected) = (%v, %v)", actual, testcase.then)
			}
		})
	}

	t.Run("number is an error", func(t *testing.T) {
		actual := executors.Command{}
		if err := json.Unmarshal([]byte(`3`), &actual); err == nil {
			t.Error("expected error")
		}
	})
}
