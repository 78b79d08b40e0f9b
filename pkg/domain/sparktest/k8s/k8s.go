package k8s

import (
	"github.com/kevintatou/sparktest/pkg/configs/server"
	run "github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
)

type KubernetesInterfaces interface {
	Worker() run.Interface
}

type impl struct {
	worker run.Interface
}

func New(cluster cluster.Cluster, config *server.ClusterConfig, options ...run.Option) KubernetesInterfaces {
	return &impl{
		worker: run.New(config, cluster, options...),
	}
}

func (i *impl) Worker() run.Interface {
	return i.worker
}
