package definition

import "github.com/kevintatou/sparktest/pkg/domain/definition/db"

type Interface interface {
	Database() db.DefinitionInterface
}

type impl struct {
	db db.DefinitionInterface
}

func New(db db.DefinitionInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.DefinitionInterface {
	return i.db
}
