package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kevintatou/sparktest/cmd/loops/hook"
	"github.com/kevintatou/sparktest/cmd/loops/recurring"
	apiruns "github.com/kevintatou/sparktest/pkg/api/types/runs"
	"github.com/kevintatou/sparktest/pkg/domain"
	k8serrors "github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	kdbrun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	k8srun "github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/run/k8s/worker"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

// initial value for task
func Seed() domain.RunCursor {
	return domain.RunCursor{
		Status:   []domain.RunStatus{domain.Running},
		Debounce: 10 * time.Second,
	}
}

const (
	// exit code recorded when the Job of a running run has gone.
	ExitCodeMissingWorker = 254

	MessageMissingWorker = "worker for the run is not found"
	MessageJobFailed     = "job failed"
)

// Task for monitor loop.
//
// It picks a running run and checks its Job.
//
// - Completed Job: the run is succeeded, with its exit code and log.
//
// - Failed Job: the run is failed, with its exit code and log.
//
// - Missing Job: the run is failed.
//
// - Job running longer than timeout: the Job is deleted and the run is failed.
func Task(
	logger *log.Logger,
	dbRun kdbrun.RunInterface,
	k8s k8srun.Interface,
	hook hook.Hook[apiruns.Detail, struct{}],
	timeout time.Duration,
	now func() time.Time,
) recurring.Task[domain.RunCursor] {
	return func(ctx context.Context, cursor domain.RunCursor) (domain.RunCursor, bool, error) {
		nextCursor, statusChanged, err := dbRun.PickAndSetStatus(
			ctx, cursor,
			func(r domain.Run) (domain.RunTransition, error) {
				if r.Status != domain.Running {
					return domain.Stay(r.Status), errors.New("unexpected run status: assertion error")
				}

				w, err := k8s.FindWorker(ctx, r.JobName)
				if k8serrors.AsMissingError(err) {
					logger.Printf("run %s: job %s is not found", r.Id, r.JobName)
					return domain.RunTransition{
						Status:   domain.Failed,
						ExitCode: pointer.Ref(ExitCodeMissingWorker),
						Message:  pointer.Ref(MessageMissingWorker),
					}, nil
				} else if err != nil {
					return domain.Stay(r.Status), err
				}

				switch w.JobStatus() {
				case worker.Done:
					return finished(ctx, logger, r, w, domain.Succeeded), nil
				case worker.Failed:
					return finished(ctx, logger, r, w, domain.Failed), nil
				}

				started := r.CreatedAt
				if r.StartedAt != nil {
					started = *r.StartedAt
				}
				if now().Sub(started) <= timeout {
					return domain.Stay(domain.Running), nil
				}

				logs, err := w.Log(ctx)
				if err != nil {
					logger.Printf("run %s: cannot read log: %s", r.Id, err)
				}
				// Close deletes the Job.
				if err := w.Close(); err != nil && !k8serrors.AsMissingError(err) {
					return domain.Stay(r.Status), err
				}
				logger.Printf("run %s: timed out. job %s is deleted", r.Id, r.JobName)
				return domain.RunTransition{
					Status:  domain.Failed,
					Message: pointer.Ref(fmt.Sprintf("timed out after %s", timeout)),
					Logs:    logs,
				}, nil
			},
		)

		if statusChanged {
			if r, err := dbRun.Get(ctx, nextCursor.Head); err == nil {
				if err := hook.After(ctx, apiruns.Compose(r)); err != nil {
					logger.Printf("run %s: lifecycle hook (after) failed: %s", r.Id, err)
				}
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
		return nextCursor, !cursor.Equal(nextCursor), err
	}
}

func finished(ctx context.Context, logger *log.Logger, r domain.Run, w worker.Worker, status domain.RunStatus) domain.RunTransition {
	tr := domain.RunTransition{Status: status}

	code, reason, ok := w.ExitCode()
	if ok {
		tr.ExitCode = pointer.Ref(int(code))
	}
	if status == domain.Failed {
		msg := MessageJobFailed
		if reason != "" {
			msg += ": " + reason
		}
		tr.Message = pointer.Ref(msg)
	}

	logs, err := w.Log(ctx)
	if err != nil {
		logger.Printf("run %s: cannot read log: %s", r.Id, err)
	}
	tr.Logs = logs
	return tr
}
