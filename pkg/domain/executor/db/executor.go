package db

import (
	"context"

	"github.com/kevintatou/sparktest/pkg/domain"
)

type ExecutorInterface interface {
	// List returns all executors, ordered by name.
	List(ctx context.Context) ([]domain.Executor, error)

	// Get returns the executor.
	//
	// Returns
	//
	// - error: ErrMissing when no executors have the id.
	Get(ctx context.Context, id string) (domain.Executor, error)

	// Create registers a new executor.
	//
	// Id of the executor should be set by the caller. CreatedAt is ignored.
	//
	// Returns
	//
	// - domain.Executor: the executor as stored.
	//
	// - error: ErrConflict when the id is used.
	Create(ctx context.Context, e domain.Executor) (domain.Executor, error)

	// Delete removes the executor.
	//
	// Definitions and runs referring the executor lose their executor id.
	//
	// Returns
	//
	// - error: ErrMissing when no executors have the id.
	Delete(ctx context.Context, id string) error
}
