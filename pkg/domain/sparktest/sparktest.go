package sparktest

import (
	"context"
	"log"

	"github.com/kevintatou/sparktest/pkg/configs/server"
	connk8s "github.com/kevintatou/sparktest/pkg/conn/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/definition"
	"github.com/kevintatou/sparktest/pkg/domain/executor"
	"github.com/kevintatou/sparktest/pkg/domain/run"
	"github.com/kevintatou/sparktest/pkg/domain/schema"
	dbInterface "github.com/kevintatou/sparktest/pkg/domain/sparktest/db"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/db/postgres"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
	"github.com/kevintatou/sparktest/pkg/domain/suite"
)

type Sparktest interface {
	Config() *server.ServerConfig

	Executor() executor.Interface
	Definition() definition.Interface
	Suite() suite.Interface
	Run() run.Interface

	Schema() schema.Interface

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

type sparktest struct {
	config *server.ServerConfig
	db     dbInterface.SparktestDatabase

	executor   executor.Interface
	definition definition.Interface
	suite      suite.Interface
	run        run.Interface
	schema     schema.Interface
}

// Default connects to the database and the k8s cluster as config says.
//
// When k8s cluster can not be connected, the returned Sparktest
// works without k8s: operations on Jobs fail, and health check reports it.
func Default(
	ctx context.Context,
	config *server.ServerConfig,
	options ...Option,
) (Sparktest, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}

	var c cluster.Cluster
	if clientset, err := connk8s.ConnectToK8s(opt.kubeconfig...); err != nil {
		log.Printf("kubernetes is not available: %+v", err)
		c = cluster.Unreachable(config.Cluster().Namespace(), err)
	} else {
		c = cluster.AttachCluster(cluster.WrapK8sClient(clientset), config.Cluster().Namespace())
	}

	return New(config, pg, c), nil
}

// New builds Sparktest over the database and the cluster.
func New(
	config *server.ServerConfig,
	db dbInterface.SparktestDatabase,
	c cluster.Cluster,
) Sparktest {
	k8sifs := k8s.New(c, config.Cluster())

	return &sparktest{
		config: config,
		db:     db,

		executor:   executor.New(db.Executor()),
		definition: definition.New(db.Definition()),
		suite:      suite.New(db.Suite()),
		run:        run.New(db.Run(), k8sifs.Worker()),
		schema:     schema.New(db.Schema()),
	}
}

type Option func(*_options)

type _options struct {
	pg         []postgres.Option
	kubeconfig []string
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

// WithKubeconfig gives kubeconfig file which wins over others.
func WithKubeconfig(kubeconfig string) Option {
	return func(o *_options) {
		if kubeconfig != "" {
			o.kubeconfig = append(o.kubeconfig, kubeconfig)
		}
	}
}

func (s *sparktest) Config() *server.ServerConfig {
	return s.config
}

func (s *sparktest) Executor() executor.Interface {
	return s.executor
}

func (s *sparktest) Definition() definition.Interface {
	return s.definition
}

func (s *sparktest) Suite() suite.Interface {
	return s.suite
}

func (s *sparktest) Run() run.Interface {
	return s.run
}

func (s *sparktest) Schema() schema.Interface {
	return s.schema
}

func (s *sparktest) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *sparktest) Close() error {
	return s.db.Close()
}
