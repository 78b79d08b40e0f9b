package mock

import (
	"context"
	"errors"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/executor/db"
	dbmock "github.com/kevintatou/sparktest/pkg/domain/internal/db/mock"
)

type ExecutorInterface struct {
	Impl struct {
		List   func(ctx context.Context) ([]domain.Executor, error)
		Get    func(ctx context.Context, id string) (domain.Executor, error)
		Create func(ctx context.Context, e domain.Executor) (domain.Executor, error)
		Delete func(ctx context.Context, id string) error
	}

	Calls struct {
		List   dbmock.CallLog[struct{}]
		Get    dbmock.CallLog[string]
		Create dbmock.CallLog[domain.Executor]
		Delete dbmock.CallLog[string]
	}
}

func NewExecutorInterface() *ExecutorInterface {
	return &ExecutorInterface{}
}

var _ db.ExecutorInterface = &ExecutorInterface{}

func (m *ExecutorInterface) List(ctx context.Context) ([]domain.Executor, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *ExecutorInterface) Get(ctx context.Context, id string) (domain.Executor, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *ExecutorInterface) Create(ctx context.Context, e domain.Executor) (domain.Executor, error) {
	m.Calls.Create = append(m.Calls.Create, e)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, e)
	}
	panic(errors.New("it should not be called"))
}

func (m *ExecutorInterface) Delete(ctx context.Context, id string) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
