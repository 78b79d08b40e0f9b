package db

import (
	"context"

	"github.com/kevintatou/sparktest/pkg/domain"
)

type SuiteInterface interface {
	// List returns all suites, newest first.
	List(ctx context.Context) ([]domain.Suite, error)

	// Get returns the suite.
	//
	// Returns
	//
	// - error: ErrMissing when no suites have the id.
	Get(ctx context.Context, id string) (domain.Suite, error)

	// Create registers a new suite. Id should be set by the caller.
	//
	// Returns
	//
	// - error: ErrConflict when the id is used.
	Create(ctx context.Context, s domain.Suite) (domain.Suite, error)

	// Update changes the suite.
	//
	// Returns
	//
	// - error: ErrMissing when no suites have the id.
	Update(ctx context.Context, id string, change domain.SuiteChange) (domain.Suite, error)

	// Delete removes the suite. Runs of the suite are kept.
	//
	// Returns
	//
	// - error: ErrMissing when no suites have the id.
	Delete(ctx context.Context, id string) error
}
