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
	"github.com/kevintatou/sparktest/pkg/domain/executor/db"
	xe "github.com/kevintatou/sparktest/pkg/errors"
)

const table = "test_executors"

type executorPG struct {
	pool kpool.Pool
}

var _ db.ExecutorInterface = &executorPG{}

func New(pool kpool.Pool) db.ExecutorInterface {
	return &executorPG{pool: pool}
}

type executorRow struct {
	Id                   string
	Name                 string
	Image                string
	DefaultCommand       pgtype.TextArray
	SupportedFileTypes   pgtype.TextArray
	EnvironmentVariables pgtype.TextArray
	Description          pgtype.Text
	Icon                 string
	CreatedAt            time.Time
}

const columns = `
	"id"::text as "id", "name", "image",
	"default_command", "supported_file_types", "environment_variables",
	"description", "icon", "created_at"
`

func (r executorRow) toDomain() (domain.Executor, error) {
	e := domain.Executor{
		Id:        r.Id,
		Name:      r.Name,
		Image:     r.Image,
		Icon:      r.Icon,
		CreatedAt: r.CreatedAt,
	}
	for _, a := range []struct {
		src *pgtype.TextArray
		dst *[]string
	}{
		{&r.DefaultCommand, &e.DefaultCommand},
		{&r.SupportedFileTypes, &e.SupportedFileTypes},
		{&r.EnvironmentVariables, &e.EnvironmentVariables},
	} {
		if err := a.src.AssignTo(a.dst); err != nil {
			return domain.Executor{}, err
		}
		if *a.dst == nil {
			*a.dst = []string{}
		}
	}
	if r.Description.Status == pgtype.Present {
		d := r.Description.String
		e.Description = &d
	}
	return e, nil
}

func toDomain(rows []executorRow) ([]domain.Executor, error) {
	ret := make([]domain.Executor, 0, len(rows))
	for _, r := range rows {
		e, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		ret = append(ret, e)
	}
	return ret, nil
}

func (m *executorPG) List(ctx context.Context) ([]domain.Executor, error) {
	rows, err := scanner.New[executorRow]().QueryAll(
		ctx, m.pool,
		`select `+columns+` from "test_executors" order by "name", "id"`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return toDomain(rows)
}

func (m *executorPG) Get(ctx context.Context, id string) (domain.Executor, error) {
	rows, err := scanner.New[executorRow]().QueryAll(
		ctx, m.pool,
		`select `+columns+` from "test_executors" where "id"::text = $1`,
		id,
	)
	if err != nil {
		return domain.Executor{}, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return domain.Executor{}, pgerrors.Missing{
			Table: table, Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return rows[0].toDomain()
}

func (m *executorPG) Create(ctx context.Context, e domain.Executor) (domain.Executor, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Executor{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	rows, err := scanner.New[executorRow]().QueryAll(
		ctx, tx,
		`
		insert into "test_executors" (
			"id", "name", "image", "default_command", "supported_file_types",
			"environment_variables", "description", "icon"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning `+columns,
		e.Id, e.Name, e.Image,
		nonNil(e.DefaultCommand), nonNil(e.SupportedFileTypes), nonNil(e.EnvironmentVariables),
		e.Description, e.Icon,
	)
	if err != nil {
		return domain.Executor{}, xe.Wrap(pgerrors.Classify(err, table))
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Executor{}, xe.Wrap(err)
	}
	return rows[0].toDomain()
}

func (m *executorPG) Delete(ctx context.Context, id string) error {
	ctag, err := m.pool.Exec(
		ctx, `delete from "test_executors" where "id"::text = $1`, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: table, Identity: fmt.Sprintf("id = %s", id)}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
