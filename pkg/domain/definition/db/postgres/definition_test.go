package postgres_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool/testenv"
	"github.com/kevintatou/sparktest/pkg/domain"
	definitionpg "github.com/kevintatou/sparktest/pkg/domain/definition/db/postgres"
	domerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	executorpg "github.com/kevintatou/sparktest/pkg/domain/executor/db/postgres"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/try"
)

func TestDefinition(t *testing.T) {
	ctx := context.Background()

	t.Run("it creates and gets definition", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		executor := try.To(executorpg.New(pool).Create(ctx, domain.Executor{
			Id: uuid.NewString(), Name: "runner", Image: "alpine",
		})).OrFatal(t)
		testee := definitionpg.New(pool)

		given := domain.Definition{
			Id:          uuid.NewString(),
			Name:        "smoke",
			Description: pointer.Ref("smoke test"),
			Image:       "alpine:3",
			Commands:    []string{"echo hi"},
			ExecutorId:  pointer.Ref(executor.Id),
			Labels:      []string{"smoke", "api"},
		}
		created := try.To(testee.Create(ctx, given)).OrFatal(t)
		given.CreatedAt = created.CreatedAt
		if !created.Equal(&given) {
			t.Errorf("created:\n===actual===\n%+v\n===expected===\n%+v", created, given)
		}

		got := try.To(testee.Get(ctx, given.Id)).OrFatal(t)
		if !got.Equal(&created) {
			t.Errorf("got:\n===actual===\n%+v\n===expected===\n%+v", got, created)
		}
	})

	t.Run("it rejects unknown executor", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		_, err := testee.Create(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "x", Image: "alpine", Commands: []string{"true"},
			ExecutorId: pointer.Ref(uuid.NewString()),
		})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})

	t.Run("it filters by labels", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		for _, labels := range [][]string{{"smoke"}, {"api", "nightly"}, {}} {
			try.To(testee.Create(ctx, domain.Definition{
				Id: uuid.NewString(), Name: "d", Image: "alpine", Commands: []string{"true"},
				Labels: labels,
			})).OrFatal(t)
		}

		for name, testcase := range map[string]struct {
			when []string
			then int
		}{
			"no filter":     {when: nil, then: 3},
			"one label":     {when: []string{"smoke"}, then: 1},
			"any of labels": {when: []string{"smoke", "nightly"}, then: 2},
			"unknown label": {when: []string{"unknown"}, then: 0},
		} {
			t.Run(name, func(t *testing.T) {
				got := try.To(testee.List(ctx, testcase.when)).OrFatal(t)
				if len(got) != testcase.then {
					t.Errorf("expected %d definitions, got %d: %+v", testcase.then, len(got), got)
				}
			})
		}
	})

	t.Run("it updates only changed fields", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		created := try.To(testee.Create(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "before", Description: pointer.Ref("desc"),
			Image: "alpine", Commands: []string{"true"}, Labels: []string{"a"},
		})).OrFatal(t)

		updated := try.To(testee.Update(ctx, created.Id, domain.DefinitionChange{
			Name:             pointer.Ref("after"),
			ClearDescription: true,
		})).OrFatal(t)

		if updated.Name != "after" || updated.Description != nil {
			t.Errorf("not updated: %+v", updated)
		}
		if updated.Image != "alpine" || !slices.Equal(updated.Labels, []string{"a"}) {
			t.Errorf("unexpectedly changed: %+v", updated)
		}

		if _, err := testee.Update(ctx, uuid.NewString(), domain.DefinitionChange{}); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})

	t.Run("it sets and clears source", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		created := try.To(testee.Create(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "a", Image: "alpine", Commands: []string{"true"},
		})).OrFatal(t)
		other := try.To(testee.Create(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "b", Image: "alpine", Commands: []string{"true"},
			Source: pointer.Ref("https://example.com/repo/blob/main/tests/b.json"),
		})).OrFatal(t)

		source := "https://example.com/repo/blob/main/tests/a.json"
		updated := try.To(testee.Update(ctx, created.Id, domain.DefinitionChange{Source: &source})).OrFatal(t)
		if !pointer.Equal(updated.Source, &source) {
			t.Errorf("source is not set: %+v", updated.Source)
		}

		if _, err := testee.Update(ctx, created.Id, domain.DefinitionChange{Source: other.Source}); !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}

		cleared := try.To(testee.Update(ctx, created.Id, domain.DefinitionChange{ClearSource: true})).OrFatal(t)
		if cleared.Source != nil {
			t.Errorf("source is not cleared: %s", *cleared.Source)
		}
	})

	t.Run("it upserts by source", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		source := domain.GitSource("https://example.com/repo.git", "main", "tests", "a.json")
		first, created := try.To2(testee.UpsertBySource(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "first", Image: "alpine",
			Commands: []string{"true"}, Source: &source,
		})).OrFatal(t)
		if !created {
			t.Error("first upsert should create")
		}

		second, created := try.To2(testee.UpsertBySource(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "second", Image: "ubuntu:latest",
			Commands: []string{"echo Hello"}, Source: &source,
		})).OrFatal(t)
		if created {
			t.Error("second upsert should update")
		}
		if second.Id != first.Id || second.Name != "second" || second.Image != "ubuntu:latest" {
			t.Errorf("unexpected upsert result: %+v", second)
		}

		all := try.To(testee.List(ctx, nil)).OrFatal(t)
		if len(all) != 1 {
			t.Errorf("expected 1 definition, got %d", len(all))
		}
	})

	t.Run("it deletes definition", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := definitionpg.New(pool)

		created := try.To(testee.Create(ctx, domain.Definition{
			Id: uuid.NewString(), Name: "d", Image: "alpine", Commands: []string{"true"},
		})).OrFatal(t)
		if err := testee.Delete(ctx, created.Id); err != nil {
			t.Fatal(err)
		}
		if err := testee.Delete(ctx, created.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})
}
