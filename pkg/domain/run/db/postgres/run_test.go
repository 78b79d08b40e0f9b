package postgres_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	testctx "github.com/kevintatou/sparktest/internal/testutils/context"
	kpool "github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool/testenv"
	"github.com/kevintatou/sparktest/pkg/domain"
	definitionpg "github.com/kevintatou/sparktest/pkg/domain/definition/db/postgres"
	domerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	runpg "github.com/kevintatou/sparktest/pkg/domain/run/db/postgres"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/try"
)

func givenDefinition(ctx context.Context, t *testing.T, pool kpool.Pool) domain.Definition {
	t.Helper()
	return try.To(definitionpg.New(pool).Create(ctx, domain.Definition{
		Id: uuid.NewString(), Name: "smoke", Image: "alpine:3", Commands: []string{"echo hi"},
	})).OrFatal(t)
}

func TestRun_New(t *testing.T) {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	defer cancel()

	t.Run("running run has started_at and job name", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		def := givenDefinition(ctx, t, pool)
		testee := runpg.New(pool)

		run := try.To(testee.New(ctx, domain.RunSpecOf(def), domain.Running, time.Minute)).OrFatal(t)

		if run.Status != domain.Running || run.StartedAt == nil || run.FinishedAt != nil {
			t.Errorf("unexpected run: %+v", run)
		}
		if run.JobName != domain.JobName(run.Id) {
			t.Errorf("unexpected job name: %s", run.JobName)
		}
		if !pointer.Equal(run.TestDefinitionId, &def.Id) || !slices.Equal(run.Command, def.Commands) {
			t.Errorf("not made from definition: %+v", run)
		}

		got := try.To(testee.Get(ctx, run.Id)).OrFatal(t)
		if !got.Equal(&run) {
			t.Errorf("got:\n===actual===\n%+v\n===expected===\n%+v", got, run)
		}
	})

	t.Run("terminal status is rejected", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)

		_, err := testee.New(ctx, domain.RunSpec{Name: "x", Image: "alpine", Command: []string{"true"}}, domain.Succeeded, 0)
		if !errors.Is(err, domain.ErrInvalidRunStateChanging) {
			t.Errorf("expected ErrInvalidRunStateChanging, got %v", err)
		}
	})

	t.Run("unknown definition is missing", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)

		_, err := testee.New(ctx, domain.RunSpec{
			Name: "x", Image: "alpine", Command: []string{"true"},
			TestDefinitionId: pointer.Ref(uuid.NewString()),
		}, domain.Pending, 0)
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})
}

func TestRun_SetStatus(t *testing.T) {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	defer cancel()

	t.Run("it finishes a run with exit, message and logs", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		def := givenDefinition(ctx, t, pool)
		testee := runpg.New(pool)
		run := try.To(testee.New(ctx, domain.RunSpecOf(def), domain.Running, 0)).OrFatal(t)

		finished := try.To(testee.SetStatus(ctx, run.Id, domain.RunTransition{
			Status:   domain.Failed,
			ExitCode: pointer.Ref(2),
			Message:  pointer.Ref("Error"),
			Logs:     []string{"line 1", "line 2"},
		})).OrFatal(t)

		if finished.Status != domain.Failed ||
			!pointer.Equal(finished.ExitCode, pointer.Ref(2)) ||
			!pointer.Equal(finished.Message, pointer.Ref("Error")) ||
			!slices.Equal(finished.Logs, []string{"line 1", "line 2"}) {
			t.Errorf("unexpected run: %+v", finished)
		}
		if finished.FinishedAt == nil || finished.Duration == nil {
			t.Errorf("finish time is not recorded: %+v", finished)
		}
	})

	t.Run("terminal runs are not changed", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)
		run := try.To(testee.New(ctx, domain.RunSpec{Name: "x", Image: "alpine", Command: []string{"true"}}, domain.Pending, 0)).OrFatal(t)
		try.To(testee.SetStatus(ctx, run.Id, domain.RunTransition{Status: domain.Cancelled})).OrFatal(t)

		_, err := testee.SetStatus(ctx, run.Id, domain.RunTransition{Status: domain.Running})
		if !errors.Is(err, domain.ErrInvalidRunStateChanging) {
			t.Errorf("expected ErrInvalidRunStateChanging, got %v", err)
		}
	})

	t.Run("unknown run is missing", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)

		_, err := testee.SetStatus(ctx, uuid.NewString(), domain.RunTransition{Status: domain.Cancelled})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})
}

func TestRun_PickAndSetStatus(t *testing.T) {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	defer cancel()

	t.Run("it picks runs in the status and changes them", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)
		spec := domain.RunSpec{Name: "x", Image: "alpine", Command: []string{"true"}}
		pending := try.To(testee.New(ctx, spec, domain.Pending, 0)).OrFatal(t)
		try.To(testee.New(ctx, spec, domain.Running, 0)).OrFatal(t)

		cursor := domain.RunCursor{Status: []domain.RunStatus{domain.Pending}, Debounce: time.Minute}
		picked := []string{}
		next, changed, err := testee.PickAndSetStatus(ctx, cursor, func(r domain.Run) (domain.RunTransition, error) {
			picked = append(picked, r.Id)
			return domain.RunTransition{Status: domain.Running, StartedAt: pointer.Ref(time.Now())}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if !changed || next.Head != pending.Id || !slices.Equal(picked, []string{pending.Id}) {
			t.Errorf("unexpected pick: next=%+v changed=%v picked=%v", next, changed, picked)
		}

		got := try.To(testee.Get(ctx, pending.Id)).OrFatal(t)
		if got.Status != domain.Running || got.StartedAt == nil {
			t.Errorf("not changed: %+v", got)
		}

		// no more pending runs.
		next2, changed, err := testee.PickAndSetStatus(ctx, next, func(r domain.Run) (domain.RunTransition, error) {
			t.Errorf("unexpected pick: %+v", r)
			return domain.Stay(r.Status), nil
		})
		if err != nil || changed || !next2.Equal(next) {
			t.Errorf("unexpected: next=%+v changed=%v err=%v", next2, changed, err)
		}
	})

	t.Run("staying runs are debounced", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)
		try.To(testee.New(ctx, domain.RunSpec{Name: "x", Image: "alpine", Command: []string{"true"}}, domain.Running, 0)).OrFatal(t)

		cursor := domain.RunCursor{Status: []domain.RunStatus{domain.Running}, Debounce: time.Hour}
		calls := 0
		task := func(r domain.Run) (domain.RunTransition, error) {
			calls += 1
			return domain.Stay(r.Status), nil
		}

		cursor, changed, err := testee.PickAndSetStatus(ctx, cursor, task)
		if err != nil || changed {
			t.Fatalf("unexpected: changed=%v err=%v", changed, err)
		}
		if _, _, err := testee.PickAndSetStatus(ctx, cursor, task); err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Errorf("debounced run is picked: %d times", calls)
		}
	})

	t.Run("error from task keeps the run", func(t *testing.T) {
		pool := testenv.GetPool(ctx, t)
		testee := runpg.New(pool)
		run := try.To(testee.New(ctx, domain.RunSpec{Name: "x", Image: "alpine", Command: []string{"true"}}, domain.Pending, 0)).OrFatal(t)

		fake := errors.New("fake")
		_, changed, err := testee.PickAndSetStatus(
			ctx, domain.RunCursor{Status: []domain.RunStatus{domain.Pending}},
			func(r domain.Run) (domain.RunTransition, error) {
				return domain.RunTransition{Status: domain.Running}, fake
			},
		)
		if !errors.Is(err, fake) || changed {
			t.Errorf("unexpected: changed=%v err=%v", changed, err)
		}
		got := try.To(testee.Get(ctx, run.Id)).OrFatal(t)
		if got.Status != domain.Pending {
			t.Errorf("run is changed: %+v", got)
		}
	})
}

func TestRun_NewSuiteRun(t *testing.T) {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	defer cancel()
	pool := testenv.GetPool(ctx, t)
	testee := runpg.New(pool)

	a := givenDefinition(ctx, t, pool)
	b := givenDefinition(ctx, t, pool)
	suite := domain.Suite{Id: uuid.NewString(), Name: "s", ExecutionMode: domain.Sequential}
	if _, err := pool.Exec(
		ctx,
		`insert into "test_suites" ("id", "name", "execution_mode") values ($1, $2, $3)`,
		suite.Id, suite.Name, suite.ExecutionMode.String(),
	); err != nil {
		t.Fatal(err)
	}

	suiteRun := try.To(testee.NewSuiteRun(ctx, suite, []domain.RunSpec{
		domain.RunSpecOf(a), domain.RunSpecOf(b),
	})).OrFatal(t)

	if len(suiteRun.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(suiteRun.Runs))
	}
	for nth, r := range suiteRun.Runs {
		if r.Status != domain.Pending || r.Suite == nil ||
			r.Suite.SuiteRunId != suiteRun.Id || r.Suite.Position != nth ||
			r.Suite.Mode != domain.Sequential || !pointer.Equal(r.Suite.SuiteId, &suite.Id) {
			t.Errorf("unexpected run #%d: %+v", nth, r)
		}
	}

	found := try.To(testee.Find(ctx, domain.RunFindQuery{SuiteRunId: suiteRun.Id})).OrFatal(t)
	if len(found) != 2 || found[0].Id != suiteRun.Runs[0].Id || found[1].Id != suiteRun.Runs[1].Id {
		t.Errorf("unexpected order: %+v", found)
	}

	none := try.To(testee.Find(ctx, domain.RunFindQuery{Status: []domain.RunStatus{domain.Running}})).OrFatal(t)
	if len(none) != 0 {
		t.Errorf("unexpected runs: %+v", none)
	}

	if err := testee.Delete(ctx, suiteRun.Runs[0].Id); err != nil {
		t.Fatal(err)
	}
	if err := testee.Delete(ctx, suiteRun.Runs[0].Id); !errors.Is(err, domerr.ErrMissing) {
		t.Errorf("expected ErrMissing, got %v", err)
	}
}

func TestRun_SuiteDeleted(t *testing.T) {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	defer cancel()
	pool := testenv.GetPool(ctx, t)
	testee := runpg.New(pool)

	def := givenDefinition(ctx, t, pool)
	suite := domain.Suite{Id: uuid.NewString(), Name: "s", ExecutionMode: domain.Parallel}
	if _, err := pool.Exec(
		ctx,
		`insert into "test_suites" ("id", "name", "execution_mode") values ($1, $2, $3)`,
		suite.Id, suite.Name, suite.ExecutionMode.String(),
	); err != nil {
		t.Fatal(err)
	}
	suiteRun := try.To(testee.NewSuiteRun(ctx, suite, []domain.RunSpec{domain.RunSpecOf(def)})).OrFatal(t)

	if _, err := pool.Exec(ctx, `delete from "test_suites" where "id" = $1`, suite.Id); err != nil {
		t.Fatal(err)
	}

	got := try.To(testee.Get(ctx, suiteRun.Runs[0].Id)).OrFatal(t)
	if got.Suite == nil {
		t.Fatal("suite run is lost")
	}
	if got.Suite.SuiteId != nil {
		t.Errorf("suite id should be nil: %s", *got.Suite.SuiteId)
	}
	if got.Suite.SuiteRunId != suiteRun.Id || got.Suite.Mode != domain.Parallel {
		t.Errorf("unexpected suite placement: %+v", got.Suite)
	}
}
