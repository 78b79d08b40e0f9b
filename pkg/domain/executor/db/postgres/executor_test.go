package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool/testenv"
	"github.com/kevintatou/sparktest/pkg/domain"
	domerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	executorpg "github.com/kevintatou/sparktest/pkg/domain/executor/db/postgres"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/try"
)

func TestExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("it creates, gets, lists and deletes executors", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := executorpg.New(pool)

		given := domain.Executor{
			Id:                   uuid.NewString(),
			Name:                 "k6",
			Image:                "grafana/k6:latest",
			DefaultCommand:       []string{"run", "script.js"},
			SupportedFileTypes:   []string{"js"},
			EnvironmentVariables: []string{"K6_OUT=json"},
			Description:          pointer.Ref("load testing"),
			Icon:                 "zap",
		}
		created := try.To(testee.Create(ctx, given)).OrFatal(t)
		if created.CreatedAt.IsZero() {
			t.Error("created_at is not set")
		}
		given.CreatedAt = created.CreatedAt
		if !created.Equal(&given) {
			t.Errorf("created:\n===actual===\n%+v\n===expected===\n%+v", created, given)
		}

		got := try.To(testee.Get(ctx, given.Id)).OrFatal(t)
		if !got.Equal(&created) {
			t.Errorf("got:\n===actual===\n%+v\n===expected===\n%+v", got, created)
		}

		second := try.To(testee.Create(ctx, domain.Executor{
			Id: uuid.NewString(), Name: "jest", Image: "node:20",
		})).OrFatal(t)
		if second.Description != nil || len(second.DefaultCommand) != 0 {
			t.Errorf("unexpected defaults: %+v", second)
		}

		list := try.To(testee.List(ctx)).OrFatal(t)
		if len(list) != 2 || list[0].Name != "jest" || list[1].Name != "k6" {
			t.Errorf("unexpected list: %+v", list)
		}

		if err := testee.Delete(ctx, given.Id); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Get(ctx, given.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("deleted executor is found: %v", err)
		}
	})

	t.Run("it reports missing executors", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := executorpg.New(pool)

		if err := testee.Delete(ctx, uuid.NewString()); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
		if _, err := testee.Get(ctx, "not-a-uuid"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})

	t.Run("it reports conflicts of id", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := executorpg.New(pool)

		e := domain.Executor{Id: uuid.NewString(), Name: "a", Image: "alpine"}
		try.To(testee.Create(ctx, e)).OrFatal(t)
		if _, err := testee.Create(ctx, e); !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}
