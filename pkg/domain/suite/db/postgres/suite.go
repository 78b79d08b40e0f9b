package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	kpool "github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/scanner"
	"github.com/kevintatou/sparktest/pkg/domain"
	pgerrors "github.com/kevintatou/sparktest/pkg/domain/errors/dberrors/postgres"
	"github.com/kevintatou/sparktest/pkg/domain/suite/db"
	xe "github.com/kevintatou/sparktest/pkg/errors"
)

const table = "test_suites"

type suitePG struct {
	pool kpool.Pool
}

var _ db.SuiteInterface = &suitePG{}

func New(pool kpool.Pool) db.SuiteInterface {
	return &suitePG{pool: pool}
}

type suiteRow struct {
	Id                string
	Name              string
	Description       pgtype.Text
	ExecutionMode     string
	Labels            pgtype.TextArray
	TestDefinitionIds pgtype.TextArray
	CreatedAt         time.Time
}

const columns = `
	"id"::text as "id", "name", "description", "execution_mode", "labels",
	"test_definition_ids"::text[] as "test_definition_ids", "created_at"
`

func (r suiteRow) toDomain() (domain.Suite, error) {
	mode, err := domain.AsExecutionMode(r.ExecutionMode)
	if err != nil {
		return domain.Suite{}, err
	}
	s := domain.Suite{
		Id:            r.Id,
		Name:          r.Name,
		ExecutionMode: mode,
		CreatedAt:     r.CreatedAt,
	}
	if r.Description.Status == pgtype.Present {
		d := r.Description.String
		s.Description = &d
	}
	if err := r.Labels.AssignTo(&s.Labels); err != nil {
		return domain.Suite{}, err
	}
	if err := r.TestDefinitionIds.AssignTo(&s.TestDefinitionIds); err != nil {
		return domain.Suite{}, err
	}
	s.Labels = nonNil(s.Labels)
	s.TestDefinitionIds = nonNil(s.TestDefinitionIds)
	return s, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (m *suitePG) List(ctx context.Context) ([]domain.Suite, error) {
	rows, err := scanner.New[suiteRow]().QueryAll(
		ctx, m.pool,
		`select `+columns+` from "test_suites" order by "created_at" desc, "id"`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ret := make([]domain.Suite, 0, len(rows))
	for _, r := range rows {
		s, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

func (m *suitePG) Get(ctx context.Context, id string) (domain.Suite, error) {
	return get(ctx, m.pool, id, false)
}

func get(ctx context.Context, q kpool.Queryer, id string, lock bool) (domain.Suite, error) {
	query := `select ` + columns + ` from "test_suites" where "id"::text = $1`
	if lock {
		query += ` for update`
	}
	rows, err := scanner.New[suiteRow]().QueryAll(ctx, q, query, id)
	if err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return domain.Suite{}, pgerrors.Missing{
			Table: table, Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return rows[0].toDomain()
}

func (m *suitePG) Create(ctx context.Context, s domain.Suite) (domain.Suite, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	rows, err := scanner.New[suiteRow]().QueryAll(
		ctx, tx,
		`
		insert into "test_suites" (
			"id", "name", "description", "execution_mode", "labels", "test_definition_ids"
		)
		values ($1, $2, $3, $4, $5, $6::uuid[])
		returning `+columns,
		s.Id, s.Name, s.Description, s.ExecutionMode.String(),
		nonNil(s.Labels), nonNil(s.TestDefinitionIds),
	)
	if err != nil {
		return domain.Suite{}, xe.Wrap(pgerrors.Classify(err, table))
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	return rows[0].toDomain()
}

func (m *suitePG) Update(ctx context.Context, id string, change domain.SuiteChange) (domain.Suite, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	current, err := get(ctx, tx, id, true)
	if err != nil {
		return domain.Suite{}, err
	}
	s := change.Apply(current)

	rows, err := scanner.New[suiteRow]().QueryAll(
		ctx, tx,
		`
		update "test_suites" set
			"name" = $2,
			"description" = $3,
			"execution_mode" = $4,
			"labels" = $5,
			"test_definition_ids" = $6::uuid[]
		where "id"::text = $1
		returning `+columns,
		s.Id, s.Name, s.Description, s.ExecutionMode.String(),
		nonNil(s.Labels), nonNil(s.TestDefinitionIds),
	)
	if err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Suite{}, xe.Wrap(err)
	}
	return rows[0].toDomain()
}

func (m *suitePG) Delete(ctx context.Context, id string) error {
	ctag, err := m.pool.Exec(
		ctx, `delete from "test_suites" where "id"::text = $1`, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: table, Identity: fmt.Sprintf("id = %s", id)}
	}
	return nil
}
