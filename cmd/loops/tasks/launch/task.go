package launch

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
	kdbrun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	k8srun "github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

// initial value for task
func Seed() domain.RunCursor {
	return domain.RunCursor{
		Status:   []domain.RunStatus{domain.Pending},
		Debounce: 5 * time.Second,
	}
}

// FailedToCreateJob prefixes the message of runs whose Job could not be created.
const FailedToCreateJob = "failed to create job: "

// Task for launch loop.
//
// It picks a pending run and creates a Job for that.
//
// A run in a sequential suite run waits until the preceding runs succeed.
// When any of them is not successful, the run is cancelled.
func Task(
	logger *log.Logger,
	dbRun kdbrun.RunInterface,
	k8s k8srun.Interface,
	hook hook.Hook[apiruns.Detail, struct{}],
	now func() time.Time,
) recurring.Task[domain.RunCursor] {
	return func(ctx context.Context, cursor domain.RunCursor) (domain.RunCursor, bool, error) {
		nextCursor, statusChanged, err := dbRun.PickAndSetStatus(
			ctx, cursor,
			func(r domain.Run) (domain.RunTransition, error) {
				if r.Status != domain.Pending {
					return domain.Stay(r.Status), errors.New("unexpected run status: assertion error")
				}

				if s := r.Suite; s != nil && s.Mode == domain.Sequential {
					blocked, cancel, err := precedings(ctx, dbRun, r)
					if err != nil {
						return domain.Stay(r.Status), err
					}
					if cancel != nil {
						return *cancel, nil
					}
					if blocked {
						return domain.Stay(domain.Pending), nil
					}
				}

				if _, err := hook.Before(ctx, apiruns.Compose(r)); err != nil {
					logger.Printf("run %s: lifecycle hook (before) failed: %s", r.Id, err)
					return domain.Stay(domain.Pending), nil
				}

				if _, err := k8s.SpawnWorker(ctx, r); err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return domain.Stay(r.Status), err
					}
					logger.Printf("run %s: %s%s", r.Id, FailedToCreateJob, err)
					return domain.RunTransition{
						Status:  domain.Failed,
						Message: pointer.Ref(FailedToCreateJob + err.Error()),
					}, nil
				}

				return domain.RunTransition{
					Status:    domain.Running,
					StartedAt: pointer.Ref(now()),
				}, nil
			},
		)

		if statusChanged {
			if r, err := dbRun.Get(ctx, nextCursor.Head); err == nil && r.Status.Terminal() {
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

// precedings inspects the runs placed before r in its suite run.
//
// # Returns
//
// - bool: true when some of them are not finished yet.
//
// - *domain.RunTransition: not nil when r should be cancelled.
func precedings(ctx context.Context, dbRun kdbrun.RunInterface, r domain.Run) (bool, *domain.RunTransition, error) {
	siblings, err := dbRun.Find(ctx, domain.RunFindQuery{SuiteRunId: r.Suite.SuiteRunId})
	if err != nil {
		return false, nil, err
	}

	blocked := false
	for _, s := range siblings {
		if s.Id == r.Id || s.Suite == nil || r.Suite.Position <= s.Suite.Position {
			continue
		}
		switch {
		case s.Status == domain.Succeeded:
		case s.Status.Terminal():
			return false, &domain.RunTransition{
				Status:  domain.Cancelled,
				Message: pointer.Ref(fmt.Sprintf("preceding run %s did not succeed", s.Id)),
			}, nil
		default:
			blocked = true
		}
	}
	return blocked, nil, nil
}
