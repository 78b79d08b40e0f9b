package hook_test

import (
	"testing"

	"github.com/kevintatou/sparktest/pkg/configs/hook"
)

func TestUnmarshal(t *testing.T) {
	t.Run("it loads lifecycle hooks", func(t *testing.T) {
		cfg, err := hook.Unmarshal([]byte(`
lifecycle-hooks:
  before:
    - http://hooks.example.com/before
  after:
    - https://hooks.example.com/after-1
    - https://hooks.example.com/after-2
`))
		if err != nil {
			t.Fatal(err)
		}

		before := cfg.Lifecycle.Before
		if len(before) != 1 || before[0].String() != "http://hooks.example.com/before" {
			t.Errorf("unexpected before: %v", before)
		}
		after := cfg.Lifecycle.After
		if len(after) != 2 ||
			after[0].String() != "https://hooks.example.com/after-1" ||
			after[1].String() != "https://hooks.example.com/after-2" {
			t.Errorf("unexpected after: %v", after)
		}
	})

	t.Run("empty config has no hooks", func(t *testing.T) {
		cfg, err := hook.Unmarshal([]byte(``))
		if err != nil {
			t.Fatal(err)
		}
		if len(cfg.Lifecycle.Before) != 0 || len(cfg.Lifecycle.After) != 0 {
			t.Errorf("unexpected hooks: %+v", cfg)
		}
	})

	t.Run("Load without filename has no hooks", func(t *testing.T) {
		cfg, err := hook.Load("")
		if err != nil {
			t.Fatal(err)
		}
		if len(cfg.Lifecycle.Before) != 0 || len(cfg.Lifecycle.After) != 0 {
			t.Errorf("unexpected hooks: %+v", cfg)
		}
	})

	t.Run("it rejects non-http url", func(t *testing.T) {
		_, err := hook.Unmarshal([]byte(`
lifecycle-hooks:
  before:
    - ftp://hooks.example.com/before
`))
		if err == nil {
			t.Error("expected error")
		}
	})
}
