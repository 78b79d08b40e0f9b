package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

type RunStatus string

const (
	// This run is waiting for its Job to be created.
	Pending RunStatus = "pending"

	// The Job of this run has been created, and is being watched.
	Running RunStatus = "running"

	// The Job of this run has completed.
	Succeeded RunStatus = "succeeded"

	// The Job of this run has failed, timed out, vanished or could not be started.
	Failed RunStatus = "failed"

	// This run was cancelled by a user or by a failed preceding run.
	Cancelled RunStatus = "cancelled"
)

func (rs RunStatus) String() string {
	return string(rs)
}

func AsRunStatus(status string) (RunStatus, error) {
	switch status {
	case string(Pending):
		return Pending, nil
	case string(Running):
		return Running, nil
	case string(Succeeded):
		return Succeeded, nil
	case string(Failed):
		return Failed, nil
	case string(Cancelled):
		return Cancelled, nil
	default:
		return "", fmt.Errorf("'%s' is not RunStatus", status)
	}
}

// Terminal tells the status never changes.
func (rs RunStatus) Terminal() bool {
	switch rs {
	case Succeeded, Failed, Cancelled:
		return true
	default:
		return false
	}
}

// Successful tells the run ended successfully.
func (rs RunStatus) Successful() bool {
	return rs == Succeeded
}

// CanTransitTo tells the status can be changed to next.
//
// Staying in the same non-terminal status is allowed.
func (rs RunStatus) CanTransitTo(next RunStatus) bool {
	switch rs {
	case Pending:
		switch next {
		case Pending, Running, Failed, Cancelled:
			return true
		}
	case Running:
		switch next {
		case Running, Succeeded, Failed, Cancelled:
			return true
		}
	}
	return false
}

const jobNamePrefix = "sparktest-job-"

// JobName returns the name of the Kubernetes Job for the run.
func JobName(runId string) string {
	return jobNamePrefix + strings.ReplaceAll(runId, "-", "")
}

// SuitePlacement locates a run in a suite run.
type SuitePlacement struct {
	// nil after the suite is deleted. The suite run stays.
	SuiteId    *string
	SuiteRunId string
	Position   int

	// mode of the suite at the time the suite run is started.
	Mode ExecutionMode
}

func (p *SuitePlacement) Equal(o *SuitePlacement) bool {
	if p == nil || o == nil {
		return p == nil && o == nil
	}
	return pointer.Equal(p.SuiteId, o.SuiteId) &&
		p.SuiteRunId == o.SuiteRunId &&
		p.Position == o.Position &&
		p.Mode == o.Mode
}

type Run struct {
	Id      string
	Name    string
	Image   string
	Command []string
	Status  RunStatus

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time

	// seconds from StartedAt to FinishedAt.
	Duration *int

	// tail of the log of the Job. recorded when the run is finished.
	Logs []string

	// exit code of the container, if known.
	ExitCode *int

	// why the run has finished so. Set for unsuccessful runs.
	Message *string

	TestDefinitionId *string
	ExecutorId       *string

	// If the run is a part of a suite run, this is not nil.
	Suite *SuitePlacement

	JobName string
}

func (r *Run) Equal(o *Run) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	timeEq := func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Equal(*b)
	}
	return r.Id == o.Id &&
		r.Name == o.Name &&
		r.Image == o.Image &&
		slices.Equal(r.Command, o.Command) &&
		r.Status == o.Status &&
		r.CreatedAt.Equal(o.CreatedAt) &&
		timeEq(r.StartedAt, o.StartedAt) &&
		timeEq(r.FinishedAt, o.FinishedAt) &&
		pointer.Equal(r.Duration, o.Duration) &&
		slices.Equal(r.Logs, o.Logs) &&
		pointer.Equal(r.ExitCode, o.ExitCode) &&
		pointer.Equal(r.Message, o.Message) &&
		pointer.Equal(r.TestDefinitionId, o.TestDefinitionId) &&
		pointer.Equal(r.ExecutorId, o.ExecutorId) &&
		r.Suite.Equal(o.Suite) &&
		r.JobName == o.JobName
}

// RunSpec is what a new run is made from.
type RunSpec struct {
	Name             string
	Image            string
	Command          []string
	TestDefinitionId *string
	ExecutorId       *string
}

// RunSpecOf makes RunSpec from a definition.
func RunSpecOf(d Definition) RunSpec {
	return RunSpec{
		Name:             d.Name,
		Image:            d.Image,
		Command:          slices.Clone(d.Commands),
		TestDefinitionId: pointer.Ref(d.Id),
		ExecutorId:       d.ExecutorId,
	}
}

// RunCursor points a run which has been picked last time.
type RunCursor struct {
	// Id of run which is picked at last time
	Head string

	// status of run which is picked
	Status []RunStatus

	// interval to pick same run without changing status.
	Debounce time.Duration
}

func (r RunCursor) Equal(other RunCursor) bool {
	return r.Head == other.Head &&
		r.Debounce == other.Debounce &&
		slices.Equal(r.Status, other.Status)
}

// parameter to query runs
//
// When all dimension matches a run, this query matches the run.
type RunFindQuery struct {
	// match if run's status is one of these statuses.
	//
	// If it is nil or empty, it means "match any".
	Status []RunStatus

	// match if run is a part of the suite. Empty means "match any".
	SuiteId string

	// match if run is a part of the suite run. Empty means "match any".
	SuiteRunId string
}

// RunTransition is a change of the status of a run, with what comes along.
type RunTransition struct {
	Status RunStatus

	// set when the run is started.
	StartedAt *time.Time

	// set when the run is finished, if known.
	ExitCode *int
	Message  *string

	// tail of the log. set when the run is finished.
	Logs []string
}

// Stay keeps the run as it is. The run is debounced.
func Stay(status RunStatus) RunTransition {
	return RunTransition{Status: status}
}

var ErrInvalidRunStateChanging = errors.New("cannot change run state")

func NewErrInvalidRunStateChanging(from, to RunStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidRunStateChanging, from, to)
}
