package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/scanner"
	"github.com/kevintatou/sparktest/pkg/domain"
	pgerrors "github.com/kevintatou/sparktest/pkg/domain/errors/dberrors/postgres"
	"github.com/kevintatou/sparktest/pkg/domain/run/db"
	xe "github.com/kevintatou/sparktest/pkg/errors"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

const table = "test_runs"

type runPG struct {
	pool kpool.Pool
}

var _ db.RunInterface = &runPG{}

func New(pool kpool.Pool) db.RunInterface {
	return &runPG{pool: pool}
}

type runRow struct {
	Id               string
	Name             string
	Image            string
	Command          pgtype.TextArray
	Status           string
	CreatedAt        time.Time
	StartedAt        pgtype.Timestamptz
	FinishedAt       pgtype.Timestamptz
	Logs             pgtype.TextArray
	ExitCode         pgtype.Int4
	Message          pgtype.Text
	TestDefinitionId pgtype.Text
	ExecutorId       pgtype.Text
	SuiteId          pgtype.Text
	SuiteRunId       pgtype.Text
	SuitePosition    pgtype.Int4
	SuiteMode        pgtype.Text
	JobName          string `sql:"k8s_job_name"`
}

const columns = `
	"id"::text as "id", "name", "image", "command", "status",
	"created_at", "started_at", "finished_at", "logs", "exit_code", "message",
	"test_definition_id"::text as "test_definition_id",
	"executor_id"::text as "executor_id",
	"suite_id"::text as "suite_id",
	"suite_run_id"::text as "suite_run_id",
	"suite_position", "suite_mode", "k8s_job_name"
`

func text(t pgtype.Text) *string {
	if t.Status != pgtype.Present {
		return nil
	}
	s := t.String
	return &s
}

func timestamp(t pgtype.Timestamptz) *time.Time {
	if t.Status != pgtype.Present {
		return nil
	}
	ts := t.Time
	return &ts
}

func (r runRow) toDomain() (domain.Run, error) {
	status, err := domain.AsRunStatus(r.Status)
	if err != nil {
		return domain.Run{}, err
	}

	run := domain.Run{
		Id:               r.Id,
		Name:             r.Name,
		Image:            r.Image,
		Status:           status,
		CreatedAt:        r.CreatedAt,
		StartedAt:        timestamp(r.StartedAt),
		FinishedAt:       timestamp(r.FinishedAt),
		Message:          text(r.Message),
		TestDefinitionId: text(r.TestDefinitionId),
		ExecutorId:       text(r.ExecutorId),
		JobName:          r.JobName,
	}
	if err := r.Command.AssignTo(&run.Command); err != nil {
		return domain.Run{}, err
	}
	if err := r.Logs.AssignTo(&run.Logs); err != nil {
		return domain.Run{}, err
	}
	if r.ExitCode.Status == pgtype.Present {
		run.ExitCode = pointer.Ref(int(r.ExitCode.Int))
	}
	if run.StartedAt != nil && run.FinishedAt != nil {
		run.Duration = pointer.Ref(int(run.FinishedAt.Sub(*run.StartedAt).Seconds()))
	}
	if r.SuiteRunId.Status == pgtype.Present {
		mode, err := domain.AsExecutionMode(r.SuiteMode.String)
		if err != nil {
			return domain.Run{}, err
		}
		run.Suite = &domain.SuitePlacement{
			SuiteId:    text(r.SuiteId),
			SuiteRunId: r.SuiteRunId.String,
			Position:   int(r.SuitePosition.Int),
			Mode:       mode,
		}
	}
	return run, nil
}

func toDomain(rows []runRow) ([]domain.Run, error) {
	ret := make([]domain.Run, 0, len(rows))
	for _, r := range rows {
		run, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		ret = append(ret, run)
	}
	return ret, nil
}

func get(ctx context.Context, q kpool.Queryer, id string) (domain.Run, error) {
	rows, err := scanner.New[runRow]().QueryAll(
		ctx, q, `select `+columns+` from "test_runs" where "id"::text = $1`, id,
	)
	if err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return domain.Run{}, pgerrors.Missing{
			Table: table, Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return rows[0].toDomain()
}

func (m *runPG) Get(ctx context.Context, id string) (domain.Run, error) {
	return get(ctx, m.pool, id)
}

func (m *runPG) Find(ctx context.Context, query domain.RunFindQuery) ([]domain.Run, error) {
	status := make([]string, 0, len(query.Status))
	for _, s := range query.Status {
		status = append(status, s.String())
	}

	rows, err := scanner.New[runRow]().QueryAll(
		ctx, m.pool,
		`
		select `+columns+` from "test_runs"
		where
			(cardinality($1::varchar[]) = 0 or "status" = any($1::varchar[]))
			and ($2 = '' or "suite_id"::text = $2)
			and ($3 = '' or "suite_run_id"::text = $3)
		order by "created_at" desc, "suite_position" asc nulls last, "id"
		`,
		status, query.SuiteId, query.SuiteRunId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return toDomain(rows)
}

type insertion struct {
	spec      domain.RunSpec
	status    domain.RunStatus
	suspend   time.Duration
	placement *domain.SuitePlacement
}

func insert(ctx context.Context, tx kpool.Tx, in insertion) (domain.Run, error) {
	id := uuid.NewString()

	var started *time.Time
	if in.status == domain.Running {
		now := time.Now()
		started = &now
	}

	var suiteId, suiteRunId, suiteMode *string
	var suitePosition *int
	if p := in.placement; p != nil {
		suiteId = p.SuiteId
		suiteRunId = &p.SuiteRunId
		suitePosition = &p.Position
		suiteMode = pointer.Ref(p.Mode.String())
	}

	command := in.spec.Command
	if command == nil {
		command = []string{}
	}

	rows, err := scanner.New[runRow]().QueryAll(
		ctx, tx,
		`
		insert into "test_runs" (
			"id", "name", "image", "command", "status", "started_at",
			"test_definition_id", "executor_id",
			"suite_id", "suite_run_id", "suite_position", "suite_mode",
			"k8s_job_name", "lifecycle_suspend_until"
		)
		values (
			$1, $2, $3, $4, $5, $6::timestamptz,
			$7::uuid, $8::uuid,
			$9::uuid, $10::uuid, $11::integer, $12::varchar,
			$13, now() + $14::interval
		)
		returning `+columns,
		id, in.spec.Name, in.spec.Image, command, in.status.String(), started,
		in.spec.TestDefinitionId, in.spec.ExecutorId,
		suiteId, suiteRunId, suitePosition, suiteMode,
		domain.JobName(id), in.suspend,
	)
	if err != nil {
		return domain.Run{}, xe.Wrap(pgerrors.Classify(err, table))
	}
	return rows[0].toDomain()
}

func (m *runPG) New(
	ctx context.Context, spec domain.RunSpec, status domain.RunStatus, lifecycleSuspend time.Duration,
) (domain.Run, error) {
	switch status {
	case domain.Pending, domain.Running:
	default:
		return domain.Run{}, fmt.Errorf("%w: runs cannot be created as %s", domain.ErrInvalidRunStateChanging, status)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	run, err := insert(ctx, tx, insertion{spec: spec, status: status, suspend: lifecycleSuspend})
	if err != nil {
		return domain.Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	return run, nil
}

func (m *runPG) NewSuiteRun(ctx context.Context, suite domain.Suite, specs []domain.RunSpec) (domain.SuiteRun, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.SuiteRun{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	suiteRun := domain.SuiteRun{Id: uuid.NewString()}
	for nth, spec := range specs {
		run, err := insert(ctx, tx, insertion{
			spec:   spec,
			status: domain.Pending,
			placement: &domain.SuitePlacement{
				SuiteId:    pointer.Ref(suite.Id),
				SuiteRunId: suiteRun.Id,
				Position:   nth,
				Mode:       suite.ExecutionMode,
			},
		})
		if err != nil {
			return domain.SuiteRun{}, err
		}
		suiteRun.Runs = append(suiteRun.Runs, run)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.SuiteRun{}, xe.Wrap(err)
	}
	return suiteRun, nil
}

func (m *runPG) SetStatus(ctx context.Context, id string, transition domain.RunTransition) (domain.Run, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if err := setStatus(ctx, tx, id, transition, 0); err != nil {
		return domain.Run{}, err
	}
	run, err := get(ctx, tx, id)
	if err != nil {
		return domain.Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	return run, nil
}

// setStatus applies transition to the run.
//
// When the status is not changed, the run is suspended for debounceIfNotChanged.
func setStatus(
	ctx context.Context, tx kpool.Tx, id string,
	transition domain.RunTransition, debounceIfNotChanged time.Duration,
) error {
	var current domain.RunStatus
	{
		var s string
		if err := tx.QueryRow(
			ctx,
			`select "status" from "test_runs" where "id"::text = $1 for update`,
			id,
		).Scan(&s); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pgerrors.Missing{
					Table: table, Identity: fmt.Sprintf("id = %s", id),
				}
			}
			return xe.Wrap(err)
		}
		c, err := domain.AsRunStatus(s)
		if err != nil {
			return err
		}
		current = c
	}

	if !current.CanTransitTo(transition.Status) {
		return domain.NewErrInvalidRunStateChanging(current, transition.Status)
	}

	if current == transition.Status {
		if _, err := tx.Exec(
			ctx,
			`
			update "test_runs" set
				"lifecycle_suspend_until" = now() + $2::interval
			where "id"::text = $1
			`,
			id, debounceIfNotChanged,
		); err != nil {
			return xe.Wrap(err)
		}
		return nil
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "test_runs" set
			"status" = $2,
			"started_at" = coalesce($3::timestamptz, "started_at"),
			"finished_at" = case when $4 then now() else "finished_at" end,
			"exit_code" = coalesce($5::integer, "exit_code"),
			"message" = coalesce($6::text, "message"),
			"logs" = coalesce($7::text[], "logs"),
			"lifecycle_suspend_until" = now()
		where "id"::text = $1
		`,
		id, transition.Status.String(), transition.StartedAt,
		transition.Status.Terminal(),
		transition.ExitCode, transition.Message, transition.Logs,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *runPG) PickAndSetStatus(
	ctx context.Context,
	cursor domain.RunCursor,
	task func(domain.Run) (domain.RunTransition, error),
) (domain.RunCursor, bool, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return cursor, false, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	status := make([]string, 0, len(cursor.Status))
	for _, s := range cursor.Status {
		status = append(status, s.String())
	}

	var runId string
	if err := tx.QueryRow(
		ctx,
		`
		select "id"::text from "test_runs"
		where
			"status" = any($1::varchar[])
			and "lifecycle_suspend_until" < now()
		order by "id"::text <= $2, "id"::text
		limit 1
		for no key update skip locked
		`,
		status, cursor.Head,
	).Scan(&runId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cursor, false, nil
		}
		return cursor, false, xe.Wrap(err)
	}

	run, err := get(ctx, tx, runId)
	if err != nil {
		return cursor, false, err
	}

	// cursor is moved!
	cursor = domain.RunCursor{
		Head:     runId,
		Status:   cursor.Status,
		Debounce: cursor.Debounce,
	}

	transition, err := task(run)
	if err != nil {
		return cursor, false, err
	}
	if err := setStatus(ctx, tx, run.Id, transition, cursor.Debounce); err != nil {
		return cursor, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return cursor, false, xe.Wrap(err)
	}
	return cursor, run.Status != transition.Status, nil
}

func (m *runPG) Delete(ctx context.Context, id string) error {
	ctag, err := m.pool.Exec(ctx, `delete from "test_runs" where "id"::text = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: table, Identity: fmt.Sprintf("id = %s", id)}
	}
	return nil
}
