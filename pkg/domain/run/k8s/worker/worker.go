package worker

import (
	"bufio"
	"context"

	"github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain"
	k8serrors "github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
	xe "github.com/kevintatou/sparktest/pkg/errors"
	"github.com/kevintatou/sparktest/pkg/utils/retry"
)

type Status string

const (
	Pending Status = "pending"
	Running Status = "running"
	Done    Status = "done"
	Failed  Status = "failed"
)

type Worker interface {
	// JobName returns the name of Job which the worker is
	JobName() string

	// JobStatus returns the status of the job
	JobStatus() Status

	// ExitCode returns the exit code of the container of job
	//
	// # Returns
	//
	// - exitCode : the exit code of the container.
	//
	// - reason: the reason of the exit.
	//
	// - ok : true if the worker has been stopped, false otherwise.
	ExitCode() (uint8, string, bool)

	// Log returns tail lines of the log of the worker.
	Log(ctx context.Context) ([]string, error)

	// Close deletes the Job. It aborts the worker if it is running.
	Close() error
}

type worker struct {
	job         cluster.Job
	maxLogLines int64
}

func (w *worker) JobName() string {
	return w.job.Name()
}

func (w *worker) JobStatus() Status {
	switch w.job.Status() {
	case cluster.Succeeded:
		return Done
	case cluster.Failed:
		return Failed
	case cluster.Pending:
		return Pending
	default:
		return Running
	}
}

func (w *worker) ExitCode() (uint8, string, bool) {
	return w.job.ExitCode(w.job.Name())
}

func (w *worker) Log(ctx context.Context) ([]string, error) {
	tail := w.maxLogLines
	rc, err := w.job.Log(ctx, cluster.LogOptions{TailLines: &tail})
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lines := []string{}
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return lines, xe.Wrap(err)
	}
	return lines, nil
}

func (w *worker) Close() error {
	return w.job.Close()
}

// spawn new Worker for the run.
//
// # params:
//
// - ctx
//
// - c : where the Worker is spawned into
//
// - conf : cluster configuration
//
// - backoff : backoff to wait the Job
//
// - run : the run to be started. Its JobName is the name of the Job.
//
// If the Job exists already, it returns the Worker for that.
func Spawn(
	ctx context.Context,
	c cluster.Cluster,
	conf *server.ClusterConfig,
	backoff retry.Backoff,
	run domain.Run,
) (Worker, error) {
	job, err := c.NewJob(ctx, backoff, JobSpec(conf, run)).Await(ctx)
	if k8serrors.AsConflict(err) {
		return Find(ctx, c, conf, backoff, run.JobName)
	}
	if err != nil {
		return nil, err
	}

	return &worker{job: job, maxLogLines: conf.MaxLogLines()}, nil
}

// Find the Worker running as the Job named jobName.
//
// # returns
//
// - error: k8serrors.ErrMissing when the Job is not found.
func Find(
	ctx context.Context,
	c cluster.Cluster,
	conf *server.ClusterConfig,
	backoff retry.Backoff,
	jobName string,
) (Worker, error) {
	job, err := c.GetJob(ctx, backoff, jobName).Await(ctx)
	if err != nil {
		return nil, err
	}

	return &worker{job: job, maxLogLines: conf.MaxLogLines()}, nil
}
