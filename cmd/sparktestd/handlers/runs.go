package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	apijobs "github.com/kevintatou/sparktest/pkg/api/types/jobs"
	apiruns "github.com/kevintatou/sparktest/pkg/api/types/runs"
	"github.com/kevintatou/sparktest/pkg/domain"
	dbdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	"github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	dbrun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	k8srun "github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/domain/validation"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	kstrings "github.com/kevintatou/sparktest/pkg/utils/strings"
	"github.com/labstack/echo/v4"
)

// StartGracePeriod is how long the monitor loop leaves a new running run alone.
//
// The Job of the run is created in the meantime.
const StartGracePeriod = 30 * time.Second

// SpawnTimeout limits how long creating a Job takes.
const SpawnTimeout = 30 * time.Second

func ListRunsHandler(dbRun dbrun.RunInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		query := domain.RunFindQuery{
			SuiteId:    c.QueryParam("suite_id"),
			SuiteRunId: c.QueryParam("suite_run_id"),
		}
		for _, s := range kstrings.SplitIfNotEmpty(c.QueryParam("status"), ",") {
			st, err := domain.AsRunStatus(s)
			if err != nil {
				return apierr.BadRequest(
					`"status" should be one of "pending", "running", "succeeded", "failed" or "cancelled"`,
					err,
				)
			}
			query.Status = append(query.Status, st)
		}
		if query.SuiteId != "" {
			if err := uuidOf("suite_id", query.SuiteId); err != nil {
				return err
			}
		}
		if query.SuiteRunId != "" {
			if err := uuidOf("suite_run_id", query.SuiteRunId); err != nil {
				return err
			}
		}

		runs, err := dbRun.Find(ctx, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apiruns.Detail, 0, len(runs))
		for _, r := range runs {
			resp = append(resp, apiruns.Compose(r))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetRunHandler(dbRun dbrun.RunInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		r, err := dbRun.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiruns.Compose(r))
	}
}

// CreateRunHandler starts a run of a definition.
//
// The run is recorded as running, and then its Job is created.
// When the Job can not be created, the run is failed.
func CreateRunHandler(
	dbDefinition dbdefinition.DefinitionInterface,
	dbRun dbrun.RunInterface,
	k8s k8srun.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apiruns.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}
		if req.TestDefinitionId == "" {
			return apierr.BadRequest(`"test_definition_id" is required`, nil)
		}
		if err := uuidOf("test_definition_id", req.TestDefinitionId); err != nil {
			return err
		}

		def, err := dbDefinition.Get(ctx, req.TestDefinitionId)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		spec := domain.RunSpecOf(def)
		if req.Name != nil {
			if spec.Name, err = validation.Name(*req.Name); err != nil {
				return invalidInput("name", err)
			}
		}
		if req.Image != nil {
			if spec.Image, err = validation.Image(*req.Image); err != nil {
				return invalidInput("image", err)
			}
		}
		if req.Commands != nil {
			if spec.Command, err = validation.Commands(req.Commands); err != nil {
				return invalidInput("commands", err)
			}
		}

		run, err := dbRun.New(ctx, spec, domain.Running, StartGracePeriod)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if err := func() error {
			sctx, cancel := context.WithTimeout(ctx, SpawnTimeout)
			defer cancel()
			_, err := k8s.SpawnWorker(sctx, run)
			return err
		}(); err != nil {
			c.Logger().Errorf("failed to create job for run %s: %+v", run.Id, err)
			if _, serr := dbRun.SetStatus(
				context.WithoutCancel(ctx), run.Id,
				domain.RunTransition{
					Status:  domain.Failed,
					Message: pointer.Ref("failed to create job: " + err.Error()),
				},
			); serr != nil {
				c.Logger().Errorf("failed to mark run %s failed: %+v", run.Id, serr)
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiruns.Compose(run))
	}
}

// CancelRunHandler cancels pending or running run.
//
// For running runs, their Job is deleted.
func CancelRunHandler(
	dbRun dbrun.RunInterface,
	k8s k8srun.Interface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		run, err := dbRun.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if run.Status.Terminal() {
			return apierr.Conflict(
				fmt.Sprintf("run is %s already", run.Status),
				apierr.WithSee("/api/test-runs/"+id),
				apierr.WithError(domain.NewErrInvalidRunStateChanging(run.Status, domain.Cancelled)),
			)
		}

		if run.Status == domain.Running {
			if err := k8s.DeleteJob(ctx, run.JobName); err != nil && !k8serrors.AsMissingError(err) {
				return apierr.InternalServerError(err)
			}
		}

		cancelled, err := dbRun.SetStatus(ctx, id, domain.RunTransition{
			Status:  domain.Cancelled,
			Message: pointer.Ref("cancelled by user"),
		})
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			if errors.Is(err, domain.ErrInvalidRunStateChanging) {
				return apierr.Conflict("prohibited operation", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiruns.Compose(cancelled))
	}
}

// DeleteRunHandler deletes the run and its Job.
func DeleteRunHandler(
	dbRun dbrun.RunInterface,
	k8s k8srun.Interface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		run, err := dbRun.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if run.Status != domain.Pending {
			if err := k8s.DeleteJob(ctx, run.JobName); err != nil && !k8serrors.AsMissingError(err) {
				return apierr.InternalServerError(err)
			}
		}

		if err := dbRun.Delete(ctx, id); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Deleted test run")
	}
}

// GetRunLogsHandler returns logs of the Job of the run.
func GetRunLogsHandler(
	dbRun dbrun.RunInterface,
	k8s k8srun.Interface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		run, err := dbRun.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		logs, err := k8s.JobLogs(ctx, run.JobName)
		if err != nil {
			if k8serrors.AsMissingError(err) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apijobs.ComposeLogs(logs))
	}
}
