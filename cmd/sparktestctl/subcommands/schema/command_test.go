package schema_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/internal/commandline"
	"github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/schema"
	kschema "github.com/kevintatou/sparktest/pkg/domain/schema/db"
	"github.com/youta-t/flarc"
)

type fakeSchema struct {
	version  int
	target   int
	upgraded int
	err      error
}

func (f *fakeSchema) Upgrade(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.upgraded += 1
	f.version = f.target
	return nil
}

func (f *fakeSchema) Version(context.Context) (int, error) {
	return f.version, nil
}

func (f *fakeSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

type closer struct{ closed bool }

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func connector(t *testing.T, s *fakeSchema, c *closer) schema.Connector {
	return func(ctx context.Context, url string, repo string) (kschema.SchemaInterface, io.Closer, error) {
		if url != "postgres://db/sparktest" || repo != "/schema" {
			t.Errorf("unexpected args: %s, %s", url, repo)
		}
		return s, c, nil
	}
}

func TestUpgrade(t *testing.T) {
	for name, testcase := range map[string]struct {
		schema *fakeSchema
		stdout string
		err    error
	}{
		"outdated schema is upgraded": {
			schema: &fakeSchema{version: 1, target: 3},
			stdout: "schema is upgraded: version 1 -> 3\n",
		},
		"latest schema is kept": {
			schema: &fakeSchema{version: 3, target: 3},
			stdout: "schema is up to date: version 3\n",
		},
		"error on upgrade": {
			schema: &fakeSchema{version: 1, target: 3, err: errors.New("lock timeout")},
		},
	} {
		t.Run(name, func(t *testing.T) {
			stdout := new(bytes.Buffer)
			c := &closer{}
			err := schema.UpgradeTask(connector(t, testcase.schema, c))(
				context.Background(),
				commandline.MockCommandline[schema.Flag]{
					Stdout_: stdout,
					Flags_:  schema.Flag{Database: "postgres://db/sparktest", Schema: "/schema"},
				},
				nil,
			)
			if !errors.Is(err, testcase.schema.err) {
				t.Errorf("unexpected error: %v", err)
			}
			if got := stdout.String(); got != testcase.stdout {
				t.Errorf("stdout: (actual, expected) = (%q, %q)", got, testcase.stdout)
			}
			if !c.closed {
				t.Error("database is not closed")
			}
		})
	}

	t.Run("flags are required", func(t *testing.T) {
		for _, flags := range []schema.Flag{
			{Schema: "/schema"},
			{Database: "postgres://db/sparktest"},
		} {
			err := schema.UpgradeTask(func(context.Context, string, string) (kschema.SchemaInterface, io.Closer, error) {
				t.Fatal("it should not connect")
				return nil, nil, nil
			})(context.Background(), commandline.MockCommandline[schema.Flag]{Flags_: flags}, nil)
			if !errors.Is(err, flarc.ErrUsage) {
				t.Errorf("%+v: unexpected error: %v", flags, err)
			}
		}
	})
}

func TestVersion(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := schema.VersionTask(connector(t, &fakeSchema{version: 7}, &closer{}))(
		context.Background(),
		commandline.MockCommandline[schema.Flag]{
			Stdout_: stdout,
			Flags_:  schema.Flag{Database: "postgres://db/sparktest", Schema: "/schema"},
		},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "7\n" {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
}
