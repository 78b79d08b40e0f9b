package handlers

import (
	"net/http"
	"time"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	apijobs "github.com/kevintatou/sparktest/pkg/api/types/jobs"
	"github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	k8srun "github.com/kevintatou/sparktest/pkg/domain/run/k8s"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
	"github.com/labstack/echo/v4"
)

// K8sHealthHandler reports whether the cluster is reachable.
//
// When it is not, the response is 503 with the same shape.
func K8sHealthHandler(k8s k8srun.Interface, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := k8s.Health(ctx); err != nil {
			c.Logger().Warnf("kubernetes is not healthy: %+v", err)
			return c.JSON(http.StatusServiceUnavailable, apijobs.Health{
				KubernetesConnected: false,
				Timestamp:           rfctime.RFC3339(now()),
				Error:               err.Error(),
			})
		}
		return c.JSON(http.StatusOK, apijobs.Health{
			KubernetesConnected: true,
			Timestamp:           rfctime.RFC3339(now()),
		})
	}
}

func GetJobLogsHandler(k8s k8srun.Interface, paramJobName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		jobName := c.Param(paramJobName)

		logs, err := k8s.JobLogs(ctx, jobName)
		if err != nil {
			if k8serrors.AsMissingError(err) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apijobs.ComposeLogs(logs))
	}
}

func GetJobStatusHandler(k8s k8srun.Interface, paramJobName string, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		jobName := c.Param(paramJobName)

		status, err := k8s.JobStatus(ctx, jobName)
		if err != nil {
			if k8serrors.AsMissingError(err) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apijobs.Status{
			JobName:   jobName,
			Status:    string(status),
			Timestamp: rfctime.RFC3339(now()),
		})
	}
}

func DeleteJobHandler(k8s k8srun.Interface, paramJobName string, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		jobName := c.Param(paramJobName)

		if err := k8s.DeleteJob(ctx, jobName); err != nil {
			if k8serrors.AsMissingError(err) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apijobs.Deleted{
			Message:   "Job '" + jobName + "' deleted successfully",
			Timestamp: rfctime.RFC3339(now()),
		})
	}
}
