package suite

import "github.com/kevintatou/sparktest/pkg/domain/suite/db"

type Interface interface {
	Database() db.SuiteInterface
}

type impl struct {
	db db.SuiteInterface
}

func New(db db.SuiteInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.SuiteInterface {
	return i.db
}
