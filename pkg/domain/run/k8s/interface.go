package k8s

import (
	"context"
	"io"
	"time"

	"github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain"
	k8serrors "github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	"github.com/kevintatou/sparktest/pkg/domain/run/k8s/worker"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
	xe "github.com/kevintatou/sparktest/pkg/errors"
	"github.com/kevintatou/sparktest/pkg/utils/retry"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
)

type Interface interface {
	// SpawnWorker creates the Job for the run.
	//
	// When the Job exists already, it returns the worker of that.
	SpawnWorker(ctx context.Context, r domain.Run) (worker.Worker, error)

	// FindWorker returns the worker running as the Job.
	//
	// Returns
	//
	// - error: k8serrors.ErrMissing when the Job is not found.
	FindWorker(ctx context.Context, jobName string) (worker.Worker, error)

	// JobStatus returns the state of the Job.
	//
	// A Job without conditions is JobPending.
	//
	// Returns
	//
	// - error: k8serrors.ErrMissing when the Job is not found.
	JobStatus(ctx context.Context, jobName string) (domain.JobState, error)

	// JobLogs returns logs of the first pod of the Job.
	//
	// A Job without conditions is JobUnknown.
	//
	// Returns
	//
	// - error: k8serrors.ErrMissing when the Job or its pod is not found.
	JobLogs(ctx context.Context, jobName string) (domain.JobLogs, error)

	// DeleteJob deletes the Job and its pods.
	//
	// Returns
	//
	// - error: k8serrors.ErrMissing when the Job is not found.
	DeleteJob(ctx context.Context, jobName string) error

	// Health returns nil when the cluster is reachable.
	Health(ctx context.Context) error
}

type impl struct {
	cluster      cluster.Cluster
	conf         *server.ClusterConfig
	pollInterval time.Duration
	now          func() time.Time
}

type Option func(*impl) *impl

// WithPollInterval sets how long to wait before each query to the cluster.
func WithPollInterval(d time.Duration) Option {
	return func(i *impl) *impl {
		i.pollInterval = d
		return i
	}
}

// WithClock replaces the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(i *impl) *impl {
		i.now = now
		return i
	}
}

func New(conf *server.ClusterConfig, cluster cluster.Cluster, options ...Option) Interface {
	i := &impl{
		cluster:      cluster,
		conf:         conf,
		pollInterval: 100 * time.Millisecond,
		now:          time.Now,
	}
	for _, opt := range options {
		i = opt(i)
	}
	return i
}

func (i *impl) backoff() retry.Backoff {
	return retry.StaticBackoff(i.pollInterval)
}

func (i *impl) SpawnWorker(ctx context.Context, r domain.Run) (worker.Worker, error) {
	return worker.Spawn(ctx, i.cluster, i.conf, i.backoff(), r)
}

func (i *impl) FindWorker(ctx context.Context, jobName string) (worker.Worker, error) {
	return worker.Find(ctx, i.cluster, i.conf, i.backoff(), jobName)
}

func (i *impl) JobStatus(ctx context.Context, jobName string) (domain.JobState, error) {
	job, err := i.cluster.GetJob(ctx, i.backoff(), jobName).Await(ctx)
	if err != nil {
		return "", err
	}
	return stateOf(job.Conditions(), domain.JobPending), nil
}

func (i *impl) JobLogs(ctx context.Context, jobName string) (domain.JobLogs, error) {
	job, err := i.cluster.GetJob(ctx, i.backoff(), jobName).Await(ctx)
	if err != nil {
		return domain.JobLogs{}, err
	}

	pods := job.Pods()
	if len(pods) == 0 {
		return domain.JobLogs{}, k8serrors.NewMissing("no pods found for job " + jobName)
	}
	pod := pods[0]

	var logs string
	if pod.Status() == cluster.PodPending {
		logs = domain.PodPendingLogPrefix + pod.PendingReason()
	} else {
		tail := i.conf.MaxLogLines()
		logs, err = readAll(i.cluster.Log(ctx, pod.Name(), cluster.LogOptions{
			TailLines: &tail, Timestamps: true,
		}))
		if err != nil {
			logs = domain.NoLogsAvailable
		}
	}

	return domain.JobLogs{
		JobName:   jobName,
		PodName:   pod.Name(),
		Logs:      logs,
		Timestamp: i.now(),
		Status:    stateOf(job.Conditions(), domain.JobUnknown),
	}, nil
}

func (i *impl) DeleteJob(ctx context.Context, jobName string) error {
	return i.cluster.DeleteJob(ctx, jobName)
}

func (i *impl) Health(ctx context.Context) error {
	return i.cluster.Ping(ctx)
}

func stateOf(conditions []kubebatch.JobCondition, none domain.JobState) domain.JobState {
	if len(conditions) == 0 {
		return none
	}
	for _, c := range conditions {
		if c.Type == kubebatch.JobComplete && c.Status == kubecore.ConditionTrue {
			return domain.JobCompleted
		}
	}
	for _, c := range conditions {
		if c.Type == kubebatch.JobFailed && c.Status == kubecore.ConditionTrue {
			return domain.JobFailed
		}
	}
	return domain.JobRunning
}

func readAll(rc io.ReadCloser, err error) (string, error) {
	if err != nil {
		return "", err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return "", xe.Wrap(err)
	}
	return string(content), nil
}
