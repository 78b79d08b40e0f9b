package handlers

import (
	"errors"
	"net/http"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	apiexecutors "github.com/kevintatou/sparktest/pkg/api/types/executors"
	"github.com/kevintatou/sparktest/pkg/domain"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	"github.com/kevintatou/sparktest/pkg/domain/executor/db"
	"github.com/kevintatou/sparktest/pkg/domain/validation"
	"github.com/labstack/echo/v4"
)

func ListExecutorsHandler(dbExecutor db.ExecutorInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		executors, err := dbExecutor.List(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apiexecutors.Detail, 0, len(executors))
		for _, e := range executors {
			resp = append(resp, apiexecutors.Compose(e))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetExecutorHandler(dbExecutor db.ExecutorInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		e, err := dbExecutor.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiexecutors.Compose(e))
	}
}

func CreateExecutorHandler(dbExecutor db.ExecutorInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apiexecutors.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		e, err := func() (domain.Executor, error) {
			id, err := idOrNew(req.Id)
			if err != nil {
				return domain.Executor{}, err
			}
			name, err := validation.Name(req.Name)
			if err != nil {
				return domain.Executor{}, invalidInput("name", err)
			}
			image, err := validation.Image(req.Image)
			if err != nil {
				return domain.Executor{}, invalidInput("image", err)
			}
			command := []string{}
			if len(req.DefaultCommand) != 0 {
				command, err = validation.Commands(req.DefaultCommand)
				if err != nil {
					return domain.Executor{}, invalidInput("default_command", err)
				}
			}
			description, err := validation.OptionalDescription(req.Description)
			if err != nil {
				return domain.Executor{}, invalidInput("description", err)
			}

			return domain.Executor{
				Id:                   id,
				Name:                 name,
				Image:                image,
				DefaultCommand:       command,
				SupportedFileTypes:   nonNil(req.SupportedFileTypes),
				EnvironmentVariables: nonNil(req.EnvironmentVariables),
				Description:          description,
				Icon:                 req.Icon,
			}, nil
		}()
		if err != nil {
			return err
		}

		if _, err := dbExecutor.Create(ctx, e); err != nil {
			if errors.Is(err, kerr.ErrConflict) {
				return apierr.Conflict("executor id is used already", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Executor created")
	}
}

func DeleteExecutorHandler(dbExecutor db.ExecutorInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		if err := dbExecutor.Delete(ctx, id); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Executor deleted")
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
