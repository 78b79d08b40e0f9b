package mock

import (
	"context"
	"errors"
	"io"

	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
)

// get mocked cluster.Cluster
//
// # returns
//
//   - cluster.Cluster : using *MockClient as base client
//   - *MockClient : mock object.
//     you can fake k8s behaviours or spy its usage.
func NewCluster() (cluster.Cluster, *MockClient) {
	client := NewMockClient()
	return cluster.AttachCluster(client, "fake-namespace"), client
}

type MockClient struct {
	Impl struct {
		GetJob    func(ctx context.Context, namespace string, name string) (*kubebatch.Job, error)
		CreateJob func(ctx context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error)
		DeleteJob func(ctx context.Context, namespace string, name string) error

		FindPods func(ctx context.Context, namespace string, ls cluster.LabelSelector, limit int64) ([]kubecore.Pod, error)

		Log func(ctx context.Context, namespace string, pod string, options cluster.LogOptions) (io.ReadCloser, error)
	}
	Called struct {
		GetJob    uint64
		CreateJob uint64
		DeleteJob uint64

		FindPods uint64

		Log uint64
	}
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// MockClient implements cluster.K8sClient
var _ cluster.K8sClient = &MockClient{}

func (m *MockClient) GetJob(ctx context.Context, namespace string, name string) (*kubebatch.Job, error) {
	m.Called.GetJob += 1
	if m.Impl.GetJob == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.GetJob(ctx, namespace, name)
}

func (m *MockClient) CreateJob(ctx context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error) {
	m.Called.CreateJob += 1
	if m.Impl.CreateJob == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.CreateJob(ctx, namespace, job)
}

func (m *MockClient) DeleteJob(ctx context.Context, namespace string, name string) error {
	m.Called.DeleteJob += 1
	if m.Impl.DeleteJob == nil {
		return errors.New("[MOCK] not implemented")
	}
	return m.Impl.DeleteJob(ctx, namespace, name)
}

func (m *MockClient) FindPods(ctx context.Context, namespace string, ls cluster.LabelSelector, limit int64) ([]kubecore.Pod, error) {
	m.Called.FindPods += 1
	if m.Impl.FindPods == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.FindPods(ctx, namespace, ls, limit)
}

func (m *MockClient) Log(ctx context.Context, namespace string, pod string, options cluster.LogOptions) (io.ReadCloser, error) {
	m.Called.Log += 1
	if m.Impl.Log == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Log(ctx, namespace, pod, options)
}
