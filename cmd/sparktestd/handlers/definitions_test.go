package handlers_test

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kevintatou/sparktest/cmd/sparktestd/handlers"
	httptestutil "github.com/kevintatou/sparktest/internal/testutils/http"
	apidefinitions "github.com/kevintatou/sparktest/pkg/api/types/definitions"
	"github.com/kevintatou/sparktest/pkg/domain"
	defmock "github.com/kevintatou/sparktest/pkg/domain/definition/db/mock"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	execmock "github.com/kevintatou/sparktest/pkg/domain/executor/db/mock"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/labstack/echo/v4"
)

func TestListDefinitionsHandler(t *testing.T) {
	mock := defmock.NewDefinitionInterface()
	mock.Impl.List = func(ctx context.Context, labels []string) ([]domain.Definition, error) {
		return []domain.Definition{
			{Id: definitionId, Name: "unit", Image: "golang:1.23", Commands: []string{"go test ./..."}, Labels: []string{"smoke"}},
		}, nil
	}

	e := echo.New()
	c, resp := httptestutil.Get(e, "/api/test-definitions?label=Smoke,,%20e2e%20")
	if err := handlers.ListDefinitionsHandler(mock)(c); err != nil {
		t.Fatal(err)
	}

	if mock.Calls.List.Times() != 1 {
		t.Fatalf("List is called %d times", mock.Calls.List.Times())
	}
	if labels := mock.Calls.List[0]; !slices.Equal(labels, []string{"smoke", "e2e"}) {
		t.Errorf("unexpected labels: %v", labels)
	}
	actual := decode[[]apidefinitions.Detail](t, resp)
	if len(actual) != 1 || actual[0].Id != definitionId {
		t.Errorf("unexpected response: %+v", actual)
	}
}

func TestCreateDefinitionHandler(t *testing.T) {
	type When struct {
		body          string
		executorFound bool
		createErr     error
	}
	type Then struct {
		code       int
		definition *domain.Definition
	}

	for name, testcase := range map[string]struct {
		when When
		then Then
	}{
		"it creates a sanitized definition": {
			when: When{
				body: `{
					"id": "` + definitionId + `",
					"name": " unit tests ",
					"image": "golang:1.23",
					"commands": [" go test ./... ", ""],
					"executor_id": "` + executorId + `",
					"source": "  https://github.com/example/repo/blob/main/tests/unit.json ",
					"labels": ["Smoke", "smoke", "CI"]
				}`,
				executorFound: true,
			},
			then: Then{
				code: http.StatusOK,
				definition: &domain.Definition{
					Id:         definitionId,
					Name:       "unit tests",
					Image:      "golang:1.23",
					Commands:   []string{"go test ./..."},
					ExecutorId: pointer.Ref(executorId),
					Source:     pointer.Ref("https://github.com/example/repo/blob/main/tests/unit.json"),
					Labels:     []string{"smoke", "ci"},
				},
			},
		},
		"it rejects dangerous commands": {
			when: When{body: `{"name": "x", "image": "alpine", "commands": ["echo hi; rm -rf /"]}`},
			then: Then{code: http.StatusBadRequest},
		},
		"it rejects empty commands": {
			when: When{body: `{"name": "x", "image": "alpine", "commands": []}`},
			then: Then{code: http.StatusBadRequest},
		},
		"it rejects unknown executor": {
			when: When{
				body:          `{"name": "x", "image": "alpine", "commands": ["true"], "executor_id": "` + executorId + `"}`,
				executorFound: false,
			},
			then: Then{code: http.StatusBadRequest},
		},
		"it rejects non-uuid executor": {
			when: When{body: `{"name": "x", "image": "alpine", "commands": ["true"], "executor_id": "pytest"}`},
			then: Then{code: http.StatusBadRequest},
		},
		"it returns 409 for conflict": {
			when: When{
				body:      `{"name": "x", "image": "alpine", "commands": ["true"]}`,
				createErr: kerr.ErrConflict,
			},
			then: Then{code: http.StatusConflict},
		},
	} {
		t.Run(name, func(t *testing.T) {
			mDef := defmock.NewDefinitionInterface()
			mDef.Impl.Create = func(ctx context.Context, d domain.Definition) (domain.Definition, error) {
				if testcase.when.createErr != nil {
					return domain.Definition{}, testcase.when.createErr
				}
				return d, nil
			}
			mExec := execmock.NewExecutorInterface()
			mExec.Impl.Get = func(ctx context.Context, id string) (domain.Executor, error) {
				if !testcase.when.executorFound {
					return domain.Executor{}, kerr.ErrMissing
				}
				return domain.Executor{Id: id}, nil
			}

			e := echo.New()
			c, resp := httptestutil.PostJSON(e, "/api/test-definitions", testcase.when.body)
			err := handlers.CreateDefinitionHandler(mDef, mExec)(c)

			if testcase.then.code != http.StatusOK {
				if code := codeOf(t, err); code != testcase.then.code {
					t.Errorf("unexpected status: %d", code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if mDef.Calls.Create.Times() != 1 {
				t.Fatalf("Create is called %d times", mDef.Calls.Create.Times())
			}
			if actual := mDef.Calls.Create[0]; !actual.Equal(testcase.then.definition) {
				t.Errorf("\n===actual===\n%+v\n===expected===\n%+v", actual, *testcase.then.definition)
			}
			if body := decode[apidefinitions.Detail](t, resp); body.Id != definitionId {
				t.Errorf("unexpected response: %+v", body)
			}
		})
	}

	t.Run("it assigns new id for the nil UUID", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Create = func(ctx context.Context, d domain.Definition) (domain.Definition, error) {
			return d, nil
		}
		mExec := execmock.NewExecutorInterface()

		e := echo.New()
		c, _ := httptestutil.PostJSON(e, "/api/test-definitions", `{
			"id": "00000000-0000-0000-0000-000000000000",
			"name": "x", "image": "alpine", "commands": ["true"]
		}`)
		if err := handlers.CreateDefinitionHandler(mDef, mExec)(c); err != nil {
			t.Fatal(err)
		}
		if id := mDef.Calls.Create[0].Id; id == "" || id == uuid.Nil.String() {
			t.Errorf("new id should be assigned: %q", id)
		}
	})

	t.Run("it requires application/json", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mExec := execmock.NewExecutorInterface()
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/test-definitions",
			strings.NewReader(`{"name": "x", "image": "alpine", "commands": ["true"]}`),
			httptestutil.ContentType("text/plain"),
		)
		err := handlers.CreateDefinitionHandler(mDef, mExec)(c)
		if code := codeOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", code)
		}
	})
}

func TestPutDefinitionHandler(t *testing.T) {
	t.Run("it replaces all fields", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Update = func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
			return change.Apply(domain.Definition{Id: id}), nil
		}
		mExec := execmock.NewExecutorInterface()

		e := echo.New()
		c, resp := httptestutil.Request(
			e, http.MethodPut, "/api/test-definitions/"+definitionId,
			strings.NewReader(`{"name": "renamed", "image": "alpine:3", "commands": ["true"]}`),
			httptestutil.JSON(),
		)
		if err := handlers.PutDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId)); err != nil {
			t.Fatal(err)
		}
		if actual := decode[string](t, resp); actual != "Updated test definition" {
			t.Errorf("unexpected response: %s", actual)
		}

		call := mDef.Calls.Update[0]
		if call.Id != definitionId {
			t.Errorf("unexpected id: %s", call.Id)
		}
		ch := call.Change
		if !ch.ClearDescription || !ch.ClearExecutorId || !ch.ReplaceLabels {
			t.Errorf("nullable fields should be cleared: %+v", ch)
		}
		if *ch.Name != "renamed" || *ch.Image != "alpine:3" {
			t.Errorf("unexpected change: %+v", ch)
		}
		if !ch.ClearSource {
			t.Errorf("absent source should be cleared: %+v", ch)
		}
	})

	t.Run("it replaces source", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Update = func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
			return change.Apply(domain.Definition{Id: id}), nil
		}
		mExec := execmock.NewExecutorInterface()

		e := echo.New()
		c, _ := httptestutil.Request(
			e, http.MethodPut, "/api/test-definitions/"+definitionId,
			strings.NewReader(`{
				"name": "renamed", "image": "alpine:3", "commands": ["true"],
				"source": "https://github.com/example/repo/blob/main/tests/unit.json"
			}`),
			httptestutil.JSON(),
		)
		if err := handlers.PutDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId)); err != nil {
			t.Fatal(err)
		}

		ch := mDef.Calls.Update[0].Change
		expected := "https://github.com/example/repo/blob/main/tests/unit.json"
		if ch.ClearSource || !pointer.Equal(ch.Source, &expected) {
			t.Errorf("unexpected source change: %+v", ch)
		}
	})

	t.Run("it returns 409 for used source", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Update = func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
			return domain.Definition{}, kerr.ErrConflict
		}
		mExec := execmock.NewExecutorInterface()

		e := echo.New()
		c, _ := httptestutil.Request(
			e, http.MethodPut, "/api/test-definitions/"+definitionId,
			strings.NewReader(`{
				"name": "renamed", "image": "alpine:3", "commands": ["true"],
				"source": "https://github.com/example/repo/blob/main/tests/other.json"
			}`),
			httptestutil.JSON(),
		)
		err := handlers.PutDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId))
		if code := codeOf(t, err); code != http.StatusConflict {
			t.Errorf("unexpected status: %d", code)
		}
	})

	t.Run("it returns 404 for missing definition", func(t *testing.T) {
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Update = func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
			return domain.Definition{}, kerr.ErrMissing
		}
		mExec := execmock.NewExecutorInterface()

		e := echo.New()
		c, _ := httptestutil.Request(
			e, http.MethodPut, "/api/test-definitions/"+definitionId,
			strings.NewReader(`{"name": "renamed", "image": "alpine:3", "commands": ["true"]}`),
			httptestutil.JSON(),
		)
		err := handlers.PutDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId))
		if code := codeOf(t, err); code != http.StatusNotFound {
			t.Errorf("unexpected status: %d", code)
		}
	})
}

func TestPatchDefinitionHandler(t *testing.T) {
	original := domain.Definition{
		Id:          definitionId,
		Name:        "unit",
		Description: pointer.Ref("old"),
		Image:       "golang:1.23",
		Commands:    []string{"go test ./..."},
		ExecutorId:  pointer.Ref(executorId),
		Source:      pointer.Ref("https://github.com/example/repo/blob/main/tests/unit.json"),
		Labels:      []string{"smoke"},
	}

	for name, testcase := range map[string]struct {
		when string
		then domain.Definition
	}{
		"source is set": {
			when: `{"source": " https://github.com/example/repo/blob/dev/tests/unit.json "}`,
			then: func() domain.Definition {
				d := original
				d.Source = pointer.Ref("https://github.com/example/repo/blob/dev/tests/unit.json")
				return d
			}(),
		},
		"null source clears it": {
			when: `{"source": null}`,
			then: func() domain.Definition {
				d := original
				d.Source = nil
				return d
			}(),
		},
		"blank source clears it": {
			when: `{"source": "  "}`,
			then: func() domain.Definition {
				d := original
				d.Source = nil
				return d
			}(),
		},
		"absent fields are kept": {
			when: `{"name": "renamed"}`,
			then: func() domain.Definition {
				d := original
				d.Name = "renamed"
				return d
			}(),
		},
		"null clears nullable fields": {
			when: `{"description": null, "executor_id": null}`,
			then: func() domain.Definition {
				d := original
				d.Description = nil
				d.ExecutorId = nil
				return d
			}(),
		},
		"labels are replaced": {
			when: `{"labels": ["E2E"]}`,
			then: func() domain.Definition {
				d := original
				d.Labels = []string{"e2e"}
				return d
			}(),
		},
		"null labels clears them": {
			when: `{"labels": null}`,
			then: func() domain.Definition {
				d := original
				d.Labels = []string{}
				return d
			}(),
		},
	} {
		t.Run(name, func(t *testing.T) {
			mDef := defmock.NewDefinitionInterface()
			mDef.Impl.Update = func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
				return change.Apply(original), nil
			}
			mExec := execmock.NewExecutorInterface()

			e := echo.New()
			c, resp := httptestutil.Patch(
				e, "/api/test-definitions/"+definitionId,
				strings.NewReader(testcase.when), httptestutil.JSON(),
			)
			if err := handlers.PatchDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId)); err != nil {
				t.Fatal(err)
			}

			expected := apidefinitions.Compose(testcase.then)
			if actual := decode[apidefinitions.Detail](t, resp); !actual.Equal(&expected) {
				t.Errorf("\n===actual===\n%+v\n===expected===\n%+v", actual, expected)
			}
		})
	}

	for _, field := range []string{"name", "image", "commands"} {
		t.Run("null "+field+" is bad request", func(t *testing.T) {
			mDef := defmock.NewDefinitionInterface()
			mExec := execmock.NewExecutorInterface()

			e := echo.New()
			c, _ := httptestutil.Patch(
				e, "/api/test-definitions/"+definitionId,
				strings.NewReader(`{"`+field+`": null}`), httptestutil.JSON(),
			)
			err := handlers.PatchDefinitionHandler(mDef, mExec, "id")(withParam(c, "id", definitionId))
			if code := codeOf(t, err); code != http.StatusBadRequest {
				t.Errorf("unexpected status: %d", code)
			}
			if mDef.Calls.Update.Times() != 0 {
				t.Error("Update should not be called")
			}
		})
	}
}

func TestDeleteDefinitionHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		when     error
		thenCode int
	}{
		"deleted": {when: nil, thenCode: http.StatusOK},
		"missing": {when: kerr.ErrMissing, thenCode: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			mDef := defmock.NewDefinitionInterface()
			mDef.Impl.Delete = func(ctx context.Context, id string) error {
				return testcase.when
			}

			e := echo.New()
			c, resp := httptestutil.Delete(e, "/api/test-definitions/"+definitionId)
			err := handlers.DeleteDefinitionHandler(mDef, "id")(withParam(c, "id", definitionId))
			if testcase.thenCode != http.StatusOK {
				if code := codeOf(t, err); code != testcase.thenCode {
					t.Errorf("unexpected status: %d", code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if actual := decode[string](t, resp); actual != "Deleted test definition" {
				t.Errorf("unexpected response: %s", actual)
			}
		})
	}
}
