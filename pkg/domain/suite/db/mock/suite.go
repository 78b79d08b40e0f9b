package mock

import (
	"context"
	"errors"

	"github.com/kevintatou/sparktest/pkg/domain"
	dbmock "github.com/kevintatou/sparktest/pkg/domain/internal/db/mock"
	"github.com/kevintatou/sparktest/pkg/domain/suite/db"
)

type SuiteInterface struct {
	Impl struct {
		List   func(ctx context.Context) ([]domain.Suite, error)
		Get    func(ctx context.Context, id string) (domain.Suite, error)
		Create func(ctx context.Context, s domain.Suite) (domain.Suite, error)
		Update func(ctx context.Context, id string, change domain.SuiteChange) (domain.Suite, error)
		Delete func(ctx context.Context, id string) error
	}

	Calls struct {
		List   dbmock.CallLog[struct{}]
		Get    dbmock.CallLog[string]
		Create dbmock.CallLog[domain.Suite]
		Update dbmock.CallLog[struct {
			Id     string
			Change domain.SuiteChange
		}]
		Delete dbmock.CallLog[string]
	}
}

func NewSuiteInterface() *SuiteInterface {
	return &SuiteInterface{}
}

var _ db.SuiteInterface = &SuiteInterface{}

func (m *SuiteInterface) List(ctx context.Context) ([]domain.Suite, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SuiteInterface) Get(ctx context.Context, id string) (domain.Suite, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *SuiteInterface) Create(ctx context.Context, s domain.Suite) (domain.Suite, error) {
	m.Calls.Create = append(m.Calls.Create, s)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, s)
	}
	panic(errors.New("it should not be called"))
}

func (m *SuiteInterface) Update(ctx context.Context, id string, change domain.SuiteChange) (domain.Suite, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id     string
		Change domain.SuiteChange
	}{Id: id, Change: change})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, change)
	}
	panic(errors.New("it should not be called"))
}

func (m *SuiteInterface) Delete(ctx context.Context, id string) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
