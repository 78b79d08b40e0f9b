package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool"
	"github.com/kevintatou/sparktest/pkg/conn/db/postgres/scanner"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/definition/db"
	pgerrors "github.com/kevintatou/sparktest/pkg/domain/errors/dberrors/postgres"
	xe "github.com/kevintatou/sparktest/pkg/errors"
)

const table = "test_definitions"

type definitionPG struct {
	pool kpool.Pool
}

var _ db.DefinitionInterface = &definitionPG{}

func New(pool kpool.Pool) db.DefinitionInterface {
	return &definitionPG{pool: pool}
}

type definitionRow struct {
	Id          string
	Name        string
	Description pgtype.Text
	Image       string
	Commands    pgtype.TextArray
	CreatedAt   time.Time
	ExecutorId  pgtype.Text
	Source      pgtype.Text
	Labels      pgtype.TextArray
}

const columns = `
	"id"::text as "id", "name", "description", "image", "commands", "created_at",
	"executor_id"::text as "executor_id", "source", "labels"
`

func optional(t pgtype.Text) *string {
	if t.Status != pgtype.Present {
		return nil
	}
	s := t.String
	return &s
}

func (r definitionRow) toDomain() (domain.Definition, error) {
	d := domain.Definition{
		Id:          r.Id,
		Name:        r.Name,
		Description: optional(r.Description),
		Image:       r.Image,
		CreatedAt:   r.CreatedAt,
		ExecutorId:  optional(r.ExecutorId),
		Source:      optional(r.Source),
	}
	if err := r.Commands.AssignTo(&d.Commands); err != nil {
		return domain.Definition{}, err
	}
	if err := r.Labels.AssignTo(&d.Labels); err != nil {
		return domain.Definition{}, err
	}
	if d.Labels == nil {
		d.Labels = []string{}
	}
	return d, nil
}

func toDomain(rows []definitionRow) ([]domain.Definition, error) {
	ret := make([]domain.Definition, 0, len(rows))
	for _, r := range rows {
		d, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		ret = append(ret, d)
	}
	return ret, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (m *definitionPG) List(ctx context.Context, labels []string) ([]domain.Definition, error) {
	rows, err := scanner.New[definitionRow]().QueryAll(
		ctx, m.pool,
		`
		select `+columns+` from "test_definitions"
		where cardinality($1::text[]) = 0 or "labels" && $1::text[]
		order by "created_at" desc, "id"
		`,
		nonNil(labels),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return toDomain(rows)
}

func (m *definitionPG) Get(ctx context.Context, id string) (domain.Definition, error) {
	return get(ctx, m.pool, id, false)
}

func get(ctx context.Context, q kpool.Queryer, id string, lock bool) (domain.Definition, error) {
	query := `select ` + columns + ` from "test_definitions" where "id"::text = $1`
	if lock {
		query += ` for update`
	}
	rows, err := scanner.New[definitionRow]().QueryAll(ctx, q, query, id)
	if err != nil {
		return domain.Definition{}, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return domain.Definition{}, pgerrors.Missing{
			Table: table, Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return rows[0].toDomain()
}

func (m *definitionPG) Create(ctx context.Context, d domain.Definition) (domain.Definition, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Definition{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	created, err := insert(ctx, tx, d)
	if err != nil {
		return domain.Definition{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Definition{}, xe.Wrap(err)
	}
	return created, nil
}

func insert(ctx context.Context, tx kpool.Tx, d domain.Definition) (domain.Definition, error) {
	rows, err := scanner.New[definitionRow]().QueryAll(
		ctx, tx,
		`
		insert into "test_definitions" (
			"id", "name", "description", "image", "commands",
			"executor_id", "source", "labels"
		)
		values ($1, $2, $3, $4, $5, $6::uuid, $7, $8)
		returning `+columns,
		d.Id, d.Name, d.Description, d.Image, nonNil(d.Commands),
		d.ExecutorId, d.Source, nonNil(d.Labels),
	)
	if err != nil {
		return domain.Definition{}, xe.Wrap(pgerrors.Classify(err, table))
	}
	return rows[0].toDomain()
}

func (m *definitionPG) Update(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Definition{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	current, err := get(ctx, tx, id, true)
	if err != nil {
		return domain.Definition{}, err
	}

	updated, err := update(ctx, tx, change.Apply(current))
	if err != nil {
		return domain.Definition{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Definition{}, xe.Wrap(err)
	}
	return updated, nil
}

func update(ctx context.Context, tx kpool.Tx, d domain.Definition) (domain.Definition, error) {
	rows, err := scanner.New[definitionRow]().QueryAll(
		ctx, tx,
		`
		update "test_definitions" set
			"name" = $2,
			"description" = $3,
			"image" = $4,
			"commands" = $5,
			"executor_id" = $6::uuid,
			"labels" = $7,
			"source" = $8
		where "id"::text = $1
		returning `+columns,
		d.Id, d.Name, d.Description, d.Image, nonNil(d.Commands),
		d.ExecutorId, nonNil(d.Labels), d.Source,
	)
	if err != nil {
		return domain.Definition{}, xe.Wrap(pgerrors.Classify(err, table))
	}
	if len(rows) == 0 {
		return domain.Definition{}, pgerrors.Missing{
			Table: table, Identity: fmt.Sprintf("id = %s", d.Id),
		}
	}
	return rows[0].toDomain()
}

func (m *definitionPG) Delete(ctx context.Context, id string) error {
	ctag, err := m.pool.Exec(
		ctx, `delete from "test_definitions" where "id"::text = $1`, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: table, Identity: fmt.Sprintf("id = %s", id)}
	}
	return nil
}

func (m *definitionPG) UpsertBySource(ctx context.Context, d domain.Definition) (domain.Definition, bool, error) {
	if d.Source == nil {
		return domain.Definition{}, false, errors.New("definition without source cannot be upserted")
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Definition{}, false, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id string
	if err := tx.QueryRow(
		ctx,
		`select "id"::text from "test_definitions" where "source" = $1 for update`,
		*d.Source,
	).Scan(&id); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Definition{}, false, xe.Wrap(err)
		}

		created, err := insert(ctx, tx, d)
		if err != nil {
			return domain.Definition{}, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return domain.Definition{}, false, xe.Wrap(err)
		}
		return created, true, nil
	}

	current, err := get(ctx, tx, id, false)
	if err != nil {
		return domain.Definition{}, false, err
	}
	current.Name = d.Name
	current.Image = d.Image
	current.Commands = d.Commands
	current.Description = d.Description
	current.Labels = d.Labels

	updated, err := update(ctx, tx, current)
	if err != nil {
		return domain.Definition{}, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Definition{}, false, xe.Wrap(err)
	}
	return updated, false, nil
}
