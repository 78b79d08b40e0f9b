package db

import (
	"context"
	"time"

	"github.com/kevintatou/sparktest/pkg/domain"
)

type RunInterface interface {
	// New creates a new run.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.RunSpec: what the run executes.
	//
	// - domain.RunStatus: initial status. Pending or Running.
	// For Running, started_at is set as now.
	//
	// - lifecycleSuspend: loops do not pick the run for this duration.
	//
	// Returns
	//
	// - domain.Run: created run. Its id and job name are decided here.
	//
	// - error: ErrMissing when the definition or executor is not found.
	New(ctx context.Context, spec domain.RunSpec, status domain.RunStatus, lifecycleSuspend time.Duration) (domain.Run, error)

	// NewSuiteRun creates pending runs for a suite at once.
	//
	// Runs are placed in the order of specs.
	//
	// Returns
	//
	// - domain.SuiteRun: created runs with new suite run id.
	//
	// - error
	NewSuiteRun(ctx context.Context, suite domain.Suite, specs []domain.RunSpec) (domain.SuiteRun, error)

	// Get returns the run.
	//
	// Returns
	//
	// - error: ErrMissing when no runs have the id.
	Get(ctx context.Context, id string) (domain.Run, error)

	// Find returns runs matching query, newest first.
	//
	// Runs in the same suite run are ordered by their position.
	Find(ctx context.Context, query domain.RunFindQuery) ([]domain.Run, error)

	// SetStatus changes status of the run.
	//
	// Returns
	//
	// - domain.Run: the run after the change.
	//
	// - error: ErrInvalidRunStateChanging when the transition is not allowed,
	// ErrMissing when no runs have the id.
	SetStatus(ctx context.Context, id string, transition domain.RunTransition) (domain.Run, error)

	// PickAndSetStatus picks next run of cursor, and changes it as task says.
	//
	// While task is running, the picked run is locked against other pickers.
	// When task returns the current status, the run is not picked for cursor.Debounce.
	//
	// Args
	//
	// - context.Context
	//
	// - cursorFrom: initial RunCursor
	//
	// - func(Run) (RunTransition, error): what happens along with the run.
	// When it returns error, the run is not changed.
	//
	// Returns
	//
	// - RunCursor: cursor points on picked run.
	// If no runs can be picked, cursor is as it was passed.
	//
	// - bool: true only when the status is changed and saved in database.
	//
	// - error: ErrInvalidRunStateChanging when task returns not allowed status,
	// or error from task.
	PickAndSetStatus(
		ctx context.Context, cursorFrom domain.RunCursor,
		task func(domain.Run) (domain.RunTransition, error),
	) (domain.RunCursor, bool, error)

	// Delete removes the run record.
	//
	// Returns
	//
	// - error: ErrMissing when no runs have the id.
	Delete(ctx context.Context, id string) error
}
