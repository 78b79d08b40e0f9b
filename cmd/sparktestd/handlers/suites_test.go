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
	apisuites "github.com/kevintatou/sparktest/pkg/api/types/suites"
	"github.com/kevintatou/sparktest/pkg/domain"
	defmock "github.com/kevintatou/sparktest/pkg/domain/definition/db/mock"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	runmock "github.com/kevintatou/sparktest/pkg/domain/run/db/mock"
	suitemock "github.com/kevintatou/sparktest/pkg/domain/suite/db/mock"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/labstack/echo/v4"
)

const otherDefinitionId = "d4b9f2e5-6c7a-4d3b-8f1e-2a3b4c5d6e7f"

func TestCreateSuiteHandler(t *testing.T) {
	t.Run("it creates a sanitized suite", func(t *testing.T) {
		mock := suitemock.NewSuiteInterface()
		mock.Impl.Create = func(ctx context.Context, s domain.Suite) (domain.Suite, error) {
			return s, nil
		}

		e := echo.New()
		c, resp := httptestutil.PostJSON(e, "/api/test-suites", `{
			"id": "`+suiteId+`",
			"name": "nightly",
			"execution_mode": "Sequential",
			"labels": ["Nightly"],
			"test_definition_ids": ["`+definitionId+`", "`+otherDefinitionId+`"]
		}`)
		if err := handlers.CreateSuiteHandler(mock)(c); err != nil {
			t.Fatal(err)
		}
		if actual := decode[string](t, resp); actual != "Suite created" {
			t.Errorf("unexpected response: %s", actual)
		}

		expected := domain.Suite{
			Id:                suiteId,
			Name:              "nightly",
			ExecutionMode:     domain.Sequential,
			Labels:            []string{"nightly"},
			TestDefinitionIds: []string{definitionId, otherDefinitionId},
		}
		if actual := mock.Calls.Create[0]; !actual.Equal(&expected) {
			t.Errorf("\n===actual===\n%+v\n===expected===\n%+v", actual, expected)
		}
	})

	t.Run("it assigns new id for the nil UUID", func(t *testing.T) {
		mock := suitemock.NewSuiteInterface()
		mock.Impl.Create = func(ctx context.Context, s domain.Suite) (domain.Suite, error) {
			return s, nil
		}

		e := echo.New()
		c, _ := httptestutil.PostJSON(e, "/api/test-suites", `{
			"id": "00000000-0000-0000-0000-000000000000",
			"name": "nightly",
			"execution_mode": "parallel"
		}`)
		if err := handlers.CreateSuiteHandler(mock)(c); err != nil {
			t.Fatal(err)
		}
		if id := mock.Calls.Create[0].Id; id == "" || id == uuid.Nil.String() {
			t.Errorf("new id should be assigned: %q", id)
		}
	})

	for name, body := range map[string]string{
		"unknown mode":       `{"name": "nightly", "execution_mode": "random"}`,
		"non-uuid reference": `{"name": "nightly", "execution_mode": "parallel", "test_definition_ids": ["unit"]}`,
		"bad name":           `{"name": "<script>", "execution_mode": "parallel"}`,
	} {
		t.Run("it returns 400 for "+name, func(t *testing.T) {
			mock := suitemock.NewSuiteInterface()
			e := echo.New()
			c, _ := httptestutil.PostJSON(e, "/api/test-suites", body)
			err := handlers.CreateSuiteHandler(mock)(c)
			if code := codeOf(t, err); code != http.StatusBadRequest {
				t.Errorf("unexpected status: %d", code)
			}
		})
	}
}

func TestPatchSuiteHandler(t *testing.T) {
	original := domain.Suite{
		Id:                suiteId,
		Name:              "nightly",
		Description:       pointer.Ref("runs every night"),
		ExecutionMode:     domain.Parallel,
		Labels:            []string{"nightly"},
		TestDefinitionIds: []string{definitionId},
	}

	for name, testcase := range map[string]struct {
		when string
		then domain.Suite
	}{
		"mode is changed": {
			when: `{"execution_mode": "sequential"}`,
			then: func() domain.Suite {
				s := original
				s.ExecutionMode = domain.Sequential
				return s
			}(),
		},
		"description is cleared": {
			when: `{"description": null}`,
			then: func() domain.Suite {
				s := original
				s.Description = nil
				return s
			}(),
		},
		"definitions are replaced": {
			when: `{"test_definition_ids": ["` + otherDefinitionId + `", "` + definitionId + `"]}`,
			then: func() domain.Suite {
				s := original
				s.TestDefinitionIds = []string{otherDefinitionId, definitionId}
				return s
			}(),
		},
	} {
		t.Run(name, func(t *testing.T) {
			mock := suitemock.NewSuiteInterface()
			mock.Impl.Update = func(ctx context.Context, id string, change domain.SuiteChange) (domain.Suite, error) {
				return change.Apply(original), nil
			}

			e := echo.New()
			c, resp := httptestutil.Patch(
				e, "/api/test-suites/"+suiteId,
				strings.NewReader(testcase.when), httptestutil.JSON(),
			)
			if err := handlers.PatchSuiteHandler(mock, "id")(withParam(c, "id", suiteId)); err != nil {
				t.Fatal(err)
			}
			expected := apisuites.Compose(testcase.then)
			if actual := decode[apisuites.Detail](t, resp); !actual.Equal(&expected) {
				t.Errorf("\n===actual===\n%+v\n===expected===\n%+v", actual, expected)
			}
		})
	}

	t.Run("null execution_mode is bad request", func(t *testing.T) {
		mock := suitemock.NewSuiteInterface()
		e := echo.New()
		c, _ := httptestutil.Patch(
			e, "/api/test-suites/"+suiteId,
			strings.NewReader(`{"execution_mode": null}`), httptestutil.JSON(),
		)
		err := handlers.PatchSuiteHandler(mock, "id")(withParam(c, "id", suiteId))
		if code := codeOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", code)
		}
	})
}

func TestRunSuiteHandler(t *testing.T) {
	definitions := map[string]domain.Definition{
		definitionId:      {Id: definitionId, Name: "unit", Image: "golang:1.23", Commands: []string{"go test ./..."}},
		otherDefinitionId: {Id: otherDefinitionId, Name: "lint", Image: "golangci/golangci-lint:v1", Commands: []string{"golangci-lint run"}},
	}
	getDefinition := func(ctx context.Context, id string) (domain.Definition, error) {
		d, ok := definitions[id]
		if !ok {
			return domain.Definition{}, kerr.ErrMissing
		}
		return d, nil
	}

	t.Run("it starts runs in order of the suite", func(t *testing.T) {
		suite := domain.Suite{
			Id:                suiteId,
			Name:              "nightly",
			ExecutionMode:     domain.Sequential,
			TestDefinitionIds: []string{otherDefinitionId, definitionId},
		}
		mSuite := suitemock.NewSuiteInterface()
		mSuite.Impl.Get = func(ctx context.Context, id string) (domain.Suite, error) { return suite, nil }
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Get = getDefinition
		mRun := runmock.NewRunInterface()
		mRun.Impl.NewSuiteRun = func(ctx context.Context, s domain.Suite, specs []domain.RunSpec) (domain.SuiteRun, error) {
			sr := domain.SuiteRun{Id: suiteRunId}
			for nth, spec := range specs {
				r := runOf(domain.Pending)
				r.Name = spec.Name
				r.Suite = &domain.SuitePlacement{
					SuiteId: pointer.Ref(s.Id), SuiteRunId: suiteRunId, Position: nth, Mode: s.ExecutionMode,
				}
				sr.Runs = append(sr.Runs, r)
			}
			return sr, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(e, "/api/test-suites/"+suiteId+"/run", nil)
		if err := handlers.RunSuiteHandler(mSuite, mDef, mRun, "id")(withParam(c, "id", suiteId)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("unexpected status: %d", resp.Code)
		}

		call := mRun.Calls.NewSuiteRun[0]
		names := []string{}
		for _, s := range call.Specs {
			names = append(names, s.Name)
		}
		if !slices.Equal(names, []string{"lint", "unit"}) {
			t.Errorf("unexpected specs: %v", names)
		}

		actual := decode[apisuites.RunResult](t, resp)
		if actual.SuiteRunId != suiteRunId || len(actual.Runs) != 2 {
			t.Fatalf("unexpected response: %+v", actual)
		}
		for nth, r := range actual.Runs {
			if r.Status != "pending" || !pointer.Equal(r.SuitePosition, &nth) || !pointer.Equal(r.SuiteRunId, pointer.Ref(suiteRunId)) {
				t.Errorf("unexpected run #%d: %+v", nth, r)
			}
		}
	})

	t.Run("empty suite is bad request", func(t *testing.T) {
		mSuite := suitemock.NewSuiteInterface()
		mSuite.Impl.Get = func(ctx context.Context, id string) (domain.Suite, error) {
			return domain.Suite{Id: id, ExecutionMode: domain.Parallel}, nil
		}
		mDef := defmock.NewDefinitionInterface()
		mRun := runmock.NewRunInterface()

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/test-suites/"+suiteId+"/run", nil)
		err := handlers.RunSuiteHandler(mSuite, mDef, mRun, "id")(withParam(c, "id", suiteId))
		if code := codeOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", code)
		}
	})

	t.Run("suite with deleted definition is bad request", func(t *testing.T) {
		mSuite := suitemock.NewSuiteInterface()
		mSuite.Impl.Get = func(ctx context.Context, id string) (domain.Suite, error) {
			return domain.Suite{
				Id: id, ExecutionMode: domain.Parallel,
				TestDefinitionIds: []string{definitionId, "00000000-0000-4000-8000-000000000000"},
			}, nil
		}
		mDef := defmock.NewDefinitionInterface()
		mDef.Impl.Get = getDefinition
		mRun := runmock.NewRunInterface()

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/test-suites/"+suiteId+"/run", nil)
		err := handlers.RunSuiteHandler(mSuite, mDef, mRun, "id")(withParam(c, "id", suiteId))
		if code := codeOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", code)
		}
		if mRun.Calls.NewSuiteRun.Times() != 0 {
			t.Error("NewSuiteRun should not be called")
		}
	})

	t.Run("missing suite is 404", func(t *testing.T) {
		mSuite := suitemock.NewSuiteInterface()
		mSuite.Impl.Get = func(ctx context.Context, id string) (domain.Suite, error) {
			return domain.Suite{}, kerr.ErrMissing
		}
		mDef := defmock.NewDefinitionInterface()
		mRun := runmock.NewRunInterface()

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/test-suites/"+suiteId+"/run", nil)
		err := handlers.RunSuiteHandler(mSuite, mDef, mRun, "id")(withParam(c, "id", suiteId))
		if code := codeOf(t, err); code != http.StatusNotFound {
			t.Errorf("unexpected status: %d", code)
		}
	})
}
