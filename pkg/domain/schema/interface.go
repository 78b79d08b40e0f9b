package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/kevintatou/sparktest/pkg/domain/schema/db"
)

// ErrNotInitialized is returned when no schema versions are applied to the database.
var ErrNotInitialized = errors.New("database schema is not initialized (run `sparktestctl schema upgrade`)")

type Interface interface {
	Database() db.SchemaInterface

	// Guard derives a context which is cancelled when the database schema gets outdated.
	//
	// It fails with ErrNotInitialized when the database has no schema yet.
	Guard(ctx context.Context) (context.Context, context.CancelFunc, error)
}

type schema struct {
	database db.SchemaInterface
}

func New(database db.SchemaInterface) Interface {
	return &schema{database: database}
}

func (s *schema) Database() db.SchemaInterface {
	return s.database
}

func (s *schema) Guard(ctx context.Context) (context.Context, context.CancelFunc, error) {
	v, err := s.database.Version(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: checking version: %w", err)
	}
	if v == 0 {
		return nil, nil, ErrNotInitialized
	}
	gctx, cancel := s.database.Context(ctx)
	return gctx, cancel, nil
}
