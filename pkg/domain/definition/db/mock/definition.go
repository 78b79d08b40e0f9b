package mock

import (
	"context"
	"errors"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/definition/db"
	dbmock "github.com/kevintatou/sparktest/pkg/domain/internal/db/mock"
)

type DefinitionInterface struct {
	Impl struct {
		List           func(ctx context.Context, labels []string) ([]domain.Definition, error)
		Get            func(ctx context.Context, id string) (domain.Definition, error)
		Create         func(ctx context.Context, d domain.Definition) (domain.Definition, error)
		Update         func(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error)
		Delete         func(ctx context.Context, id string) error
		UpsertBySource func(ctx context.Context, d domain.Definition) (domain.Definition, bool, error)
	}

	Calls struct {
		List   dbmock.CallLog[[]string]
		Get    dbmock.CallLog[string]
		Create dbmock.CallLog[domain.Definition]
		Update dbmock.CallLog[struct {
			Id     string
			Change domain.DefinitionChange
		}]
		Delete         dbmock.CallLog[string]
		UpsertBySource dbmock.CallLog[domain.Definition]
	}
}

func NewDefinitionInterface() *DefinitionInterface {
	return &DefinitionInterface{}
}

var _ db.DefinitionInterface = &DefinitionInterface{}

func (m *DefinitionInterface) List(ctx context.Context, labels []string) ([]domain.Definition, error) {
	m.Calls.List = append(m.Calls.List, labels)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, labels)
	}
	panic(errors.New("it should not be called"))
}

func (m *DefinitionInterface) Get(ctx context.Context, id string) (domain.Definition, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *DefinitionInterface) Create(ctx context.Context, d domain.Definition) (domain.Definition, error) {
	m.Calls.Create = append(m.Calls.Create, d)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, d)
	}
	panic(errors.New("it should not be called"))
}

func (m *DefinitionInterface) Update(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id     string
		Change domain.DefinitionChange
	}{Id: id, Change: change})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, change)
	}
	panic(errors.New("it should not be called"))
}

func (m *DefinitionInterface) Delete(ctx context.Context, id string) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *DefinitionInterface) UpsertBySource(ctx context.Context, d domain.Definition) (domain.Definition, bool, error) {
	m.Calls.UpsertBySource = append(m.Calls.UpsertBySource, d)
	if m.Impl.UpsertBySource != nil {
		return m.Impl.UpsertBySource(ctx, d)
	}
	panic(errors.New("it should not be called"))
}
