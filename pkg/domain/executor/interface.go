package executor

import "github.com/kevintatou/sparktest/pkg/domain/executor/db"

type Interface interface {
	Database() db.ExecutorInterface
}

type impl struct {
	db db.ExecutorInterface
}

func New(db db.ExecutorInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.ExecutorInterface {
	return i.db
}
