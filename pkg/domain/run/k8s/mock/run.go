package mock

import (
	"context"
	"testing"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/run/k8s/worker"
)

type MockRunInterface struct {
	t    *testing.T
	Impl struct {
		SpawnWorker func(ctx context.Context, r domain.Run) (worker.Worker, error)
		FindWorker  func(ctx context.Context, jobName string) (worker.Worker, error)
		JobStatus   func(ctx context.Context, jobName string) (domain.JobState, error)
		JobLogs     func(ctx context.Context, jobName string) (domain.JobLogs, error)
		DeleteJob   func(ctx context.Context, jobName string) error
		Health      func(ctx context.Context) error
	}
}

var _ k8s.Interface = &MockRunInterface{}

func New(t *testing.T) *MockRunInterface {
	return &MockRunInterface{t: t}
}

func (m *MockRunInterface) SpawnWorker(ctx context.Context, r domain.Run) (worker.Worker, error) {
	m.t.Helper()
	if m.Impl.SpawnWorker == nil {
		m.t.Fatal("SpawnWorker is not implemented")
	}
	return m.Impl.SpawnWorker(ctx, r)
}

func (m *MockRunInterface) FindWorker(ctx context.Context, jobName string) (worker.Worker, error) {
	m.t.Helper()
	if m.Impl.FindWorker == nil {
		m.t.Fatal("FindWorker is not implemented")
	}
	return m.Impl.FindWorker(ctx, jobName)
}

func (m *MockRunInterface) JobStatus(ctx context.Context, jobName string) (domain.JobState, error) {
	m.t.Helper()
	if m.Impl.JobStatus == nil {
		m.t.Fatal("JobStatus is not implemented")
	}
	return m.Impl.JobStatus(ctx, jobName)
}

func (m *MockRunInterface) JobLogs(ctx context.Context, jobName string) (domain.JobLogs, error) {
	m.t.Helper()
	if m.Impl.JobLogs == nil {
		m.t.Fatal("JobLogs is not implemented")
	}
	return m.Impl.JobLogs(ctx, jobName)
}

func (m *MockRunInterface) DeleteJob(ctx context.Context, jobName string) error {
	m.t.Helper()
	if m.Impl.DeleteJob == nil {
		m.t.Fatal("DeleteJob is not implemented")
	}
	return m.Impl.DeleteJob(ctx, jobName)
}

func (m *MockRunInterface) Health(ctx context.Context) error {
	m.t.Helper()
	if m.Impl.Health == nil {
		m.t.Fatal("Health is not implemented")
	}
	return m.Impl.Health(ctx)
}

// MockWorker is a fake worker.Worker.
type MockWorker struct {
	Impl struct {
		JobName   func() string
		JobStatus func() worker.Status
		ExitCode  func() (uint8, string, bool)
		Log       func(ctx context.Context) ([]string, error)
		Close     func() error
	}
}

var _ worker.Worker = &MockWorker{}

func NewWorker() *MockWorker {
	return &MockWorker{}
}

func (m *MockWorker) JobName() string {
	if m.Impl.JobName == nil {
		panic("JobName: it should not be called")
	}
	return m.Impl.JobName()
}

func (m *MockWorker) JobStatus() worker.Status {
	if m.Impl.JobStatus == nil {
		panic("JobStatus: it should not be called")
	}
	return m.Impl.JobStatus()
}

func (m *MockWorker) ExitCode() (uint8, string, bool) {
	if m.Impl.ExitCode == nil {
		panic("ExitCode: it should not be called")
	}
	return m.Impl.ExitCode()
}

func (m *MockWorker) Log(ctx context.Context) ([]string, error) {
	if m.Impl.Log == nil {
		panic("Log: it should not be called")
	}
	return m.Impl.Log(ctx)
}

func (m *MockWorker) Close() error {
	if m.Impl.Close == nil {
		panic("Close: it should not be called")
	}
	return m.Impl.Close()
}
