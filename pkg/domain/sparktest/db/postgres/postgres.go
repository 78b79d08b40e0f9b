package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/kevintatou/sparktest/pkg/conn/db/postgres/pool"
	kdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	kpgdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db/postgres"
	kexecutor "github.com/kevintatou/sparktest/pkg/domain/executor/db"
	kpgexecutor "github.com/kevintatou/sparktest/pkg/domain/executor/db/postgres"
	krun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	kpgrun "github.com/kevintatou/sparktest/pkg/domain/run/db/postgres"
	kschema "github.com/kevintatou/sparktest/pkg/domain/schema/db"
	kpgschema "github.com/kevintatou/sparktest/pkg/domain/schema/db/postgres"
	dbInterface "github.com/kevintatou/sparktest/pkg/domain/sparktest/db"
	ksuite "github.com/kevintatou/sparktest/pkg/domain/suite/db"
	kpgsuite "github.com/kevintatou/sparktest/pkg/domain/suite/db/postgres"
	xe "github.com/kevintatou/sparktest/pkg/errors"
)

type sparktestPostgres struct {
	pool       kpool.Pool
	executor   kexecutor.ExecutorInterface
	definition kdefinition.DefinitionInterface
	suite      ksuite.SuiteInterface
	run        krun.RunInterface
	schema     kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

// WithSchemaRepository enables schema management with the repository.
//
// Without this, schema is not managed: Upgrade does nothing.
func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.SparktestDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return Attach(kpool.Wrap(pool), options...), nil
}

// Attach builds SparktestDatabase on an established pool.
func Attach(p kpool.Pool, options ...Option) dbInterface.SparktestDatabase {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &sparktestPostgres{
		pool:       p,
		executor:   kpgexecutor.New(p),
		definition: kpgdefinition.New(p),
		suite:      kpgsuite.New(p),
		run:        kpgrun.New(p),
		schema:     schema,
	}
}

func (s *sparktestPostgres) Executor() kexecutor.ExecutorInterface {
	return s.executor
}

func (s *sparktestPostgres) Definition() kdefinition.DefinitionInterface {
	return s.definition
}

func (s *sparktestPostgres) Suite() ksuite.SuiteInterface {
	return s.suite
}

func (s *sparktestPostgres) Run() krun.RunInterface {
	return s.run
}

func (s *sparktestPostgres) Schema() kschema.SchemaInterface {
	return s.schema
}

func (s *sparktestPostgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *sparktestPostgres) Close() error {
	s.pool.Close()
	return nil
}
