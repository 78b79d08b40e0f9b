package db

import (
	"context"

	kdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	kexecutor "github.com/kevintatou/sparktest/pkg/domain/executor/db"
	krun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	kschema "github.com/kevintatou/sparktest/pkg/domain/schema/db"
	ksuite "github.com/kevintatou/sparktest/pkg/domain/suite/db"
)

type SparktestDatabase interface {
	Executor() kexecutor.ExecutorInterface
	Definition() kdefinition.DefinitionInterface
	Suite() ksuite.SuiteInterface
	Run() krun.RunInterface
	Schema() kschema.SchemaInterface

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
