package mock

import (
	"context"
	"errors"
	"time"

	"github.com/kevintatou/sparktest/pkg/domain"
	dbmock "github.com/kevintatou/sparktest/pkg/domain/internal/db/mock"
	"github.com/kevintatou/sparktest/pkg/domain/run/db"
)

type RunInterface struct {
	Impl struct {
		New              func(ctx context.Context, spec domain.RunSpec, status domain.RunStatus, lifecycleSuspend time.Duration) (domain.Run, error)
		NewSuiteRun      func(ctx context.Context, suite domain.Suite, specs []domain.RunSpec) (domain.SuiteRun, error)
		Get              func(ctx context.Context, id string) (domain.Run, error)
		Find             func(ctx context.Context, query domain.RunFindQuery) ([]domain.Run, error)
		SetStatus        func(ctx context.Context, id string, transition domain.RunTransition) (domain.Run, error)
		PickAndSetStatus func(ctx context.Context, cursor domain.RunCursor, task func(domain.Run) (domain.RunTransition, error)) (domain.RunCursor, bool, error)
		Delete           func(ctx context.Context, id string) error
	}

	Calls struct {
		New dbmock.CallLog[struct {
			Spec             domain.RunSpec
			Status           domain.RunStatus
			LifecycleSuspend time.Duration
		}]
		NewSuiteRun dbmock.CallLog[struct {
			Suite domain.Suite
			Specs []domain.RunSpec
		}]
		Get       dbmock.CallLog[string]
		Find      dbmock.CallLog[domain.RunFindQuery]
		SetStatus dbmock.CallLog[struct {
			Id         string
			Transition domain.RunTransition
		}]
		PickAndSetStatus dbmock.CallLog[domain.RunCursor]
		Delete           dbmock.CallLog[string]
	}
}

func NewRunInterface() *RunInterface {
	return &RunInterface{}
}

var _ db.RunInterface = &RunInterface{}

func (m *RunInterface) New(ctx context.Context, spec domain.RunSpec, status domain.RunStatus, lifecycleSuspend time.Duration) (domain.Run, error) {
	m.Calls.New = append(m.Calls.New, struct {
		Spec             domain.RunSpec
		Status           domain.RunStatus
		LifecycleSuspend time.Duration
	}{Spec: spec, Status: status, LifecycleSuspend: lifecycleSuspend})
	if m.Impl.New != nil {
		return m.Impl.New(ctx, spec, status, lifecycleSuspend)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) NewSuiteRun(ctx context.Context, suite domain.Suite, specs []domain.RunSpec) (domain.SuiteRun, error) {
	m.Calls.NewSuiteRun = append(m.Calls.NewSuiteRun, struct {
		Suite domain.Suite
		Specs []domain.RunSpec
	}{Suite: suite, Specs: specs})
	if m.Impl.NewSuiteRun != nil {
		return m.Impl.NewSuiteRun(ctx, suite, specs)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) Get(ctx context.Context, id string) (domain.Run, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) Find(ctx context.Context, query domain.RunFindQuery) ([]domain.Run, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) SetStatus(ctx context.Context, id string, transition domain.RunTransition) (domain.Run, error) {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		Id         string
		Transition domain.RunTransition
	}{Id: id, Transition: transition})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, id, transition)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) PickAndSetStatus(
	ctx context.Context,
	cursor domain.RunCursor,
	task func(domain.Run) (domain.RunTransition, error),
) (domain.RunCursor, bool, error) {
	m.Calls.PickAndSetStatus = append(m.Calls.PickAndSetStatus, cursor)
	if m.Impl.PickAndSetStatus != nil {
		return m.Impl.PickAndSetStatus(ctx, cursor, task)
	}
	panic(errors.New("it should not be called"))
}

func (m *RunInterface) Delete(ctx context.Context, id string) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
