package handlers

import (
	"errors"
	"net/http"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	apisuites "github.com/kevintatou/sparktest/pkg/api/types/suites"
	"github.com/kevintatou/sparktest/pkg/domain"
	dbdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	dbrun "github.com/kevintatou/sparktest/pkg/domain/run/db"
	dbsuite "github.com/kevintatou/sparktest/pkg/domain/suite/db"
	"github.com/kevintatou/sparktest/pkg/domain/validation"
	"github.com/labstack/echo/v4"
)

func ListSuitesHandler(dbSuite dbsuite.SuiteInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		suites, err := dbSuite.List(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apisuites.Detail, 0, len(suites))
		for _, s := range suites {
			resp = append(resp, apisuites.Compose(s))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetSuiteHandler(dbSuite dbsuite.SuiteInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		s, err := dbSuite.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apisuites.Compose(s))
	}
}

func definitionIds(ids []string) ([]string, error) {
	if ids == nil {
		return []string{}, nil
	}
	for _, id := range ids {
		if err := uuidOf("test_definition_ids", id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// sanitizeSuite makes a change replacing all editable fields.
func sanitizeSuite(req *apisuites.Create) (domain.SuiteChange, error) {
	name, err := validation.Name(req.Name)
	if err != nil {
		return domain.SuiteChange{}, invalidInput("name", err)
	}
	description, err := validation.OptionalDescription(req.Description)
	if err != nil {
		return domain.SuiteChange{}, invalidInput("description", err)
	}
	mode, err := validation.ExecutionMode(req.ExecutionMode)
	if err != nil {
		return domain.SuiteChange{}, invalidInput("execution_mode", err)
	}
	labels, err := validation.Labels(req.Labels)
	if err != nil {
		return domain.SuiteChange{}, invalidInput("labels", err)
	}
	defs, err := definitionIds(req.TestDefinitionIds)
	if err != nil {
		return domain.SuiteChange{}, err
	}

	return domain.SuiteChange{
		Name:              &name,
		Description:       description,
		ClearDescription:  description == nil,
		ExecutionMode:     &mode,
		Labels:            labels,
		ReplaceLabels:     true,
		TestDefinitionIds: defs,
	}, nil
}

func CreateSuiteHandler(dbSuite dbsuite.SuiteInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apisuites.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}
		id, err := idOrNew(req.Id)
		if err != nil {
			return err
		}
		change, err := sanitizeSuite(req)
		if err != nil {
			return err
		}

		if _, err := dbSuite.Create(ctx, change.Apply(domain.Suite{Id: id})); err != nil {
			if errors.Is(err, kerr.ErrConflict) {
				return apierr.Conflict("suite id is used already", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Suite created")
	}
}

func PutSuiteHandler(dbSuite dbsuite.SuiteInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		req := new(apisuites.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}
		change, err := sanitizeSuite(req)
		if err != nil {
			return err
		}

		if _, err := dbSuite.Update(ctx, id, change); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Suite updated")
	}
}

func PatchSuiteHandler(dbSuite dbsuite.SuiteInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		req := new(apisuites.Patch)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		change := domain.SuiteChange{}
		if req.Name.Present {
			if req.Name.Null {
				return apierr.BadRequest(`"name" can not be null`, nil)
			}
			name, err := validation.Name(req.Name.Value)
			if err != nil {
				return invalidInput("name", err)
			}
			change.Name = &name
		}
		if req.Description.Present {
			if req.Description.Null {
				change.ClearDescription = true
			} else {
				d, err := validation.Description(req.Description.Value)
				if err != nil {
					return invalidInput("description", err)
				}
				change.Description = &d
			}
		}
		if req.ExecutionMode.Present {
			if req.ExecutionMode.Null {
				return apierr.BadRequest(`"execution_mode" can not be null`, nil)
			}
			mode, err := validation.ExecutionMode(req.ExecutionMode.Value)
			if err != nil {
				return invalidInput("execution_mode", err)
			}
			change.ExecutionMode = &mode
		}
		if req.Labels.Present {
			labels, err := validation.Labels(req.Labels.Value)
			if err != nil {
				return invalidInput("labels", err)
			}
			change.Labels = labels
			change.ReplaceLabels = true
		}
		if req.TestDefinitionIds.Present {
			defs, err := definitionIds(req.TestDefinitionIds.Value)
			if err != nil {
				return err
			}
			change.TestDefinitionIds = defs
		}

		updated, err := dbSuite.Update(ctx, id, change)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apisuites.Compose(updated))
	}
}

func DeleteSuiteHandler(dbSuite dbsuite.SuiteInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		if err := dbSuite.Delete(ctx, id); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Suite deleted")
	}
}

// RunSuiteHandler starts runs for all definitions in the suite.
//
// Runs are created as pending. The launch loop creates their Jobs,
// one by one for sequential suites.
func RunSuiteHandler(
	dbSuite dbsuite.SuiteInterface,
	dbDefinition dbdefinition.DefinitionInterface,
	dbRun dbrun.RunInterface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		suite, err := dbSuite.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		if len(suite.TestDefinitionIds) == 0 {
			return apierr.BadRequest("suite has no test definitions", nil)
		}

		specs := make([]domain.RunSpec, 0, len(suite.TestDefinitionIds))
		for _, defId := range suite.TestDefinitionIds {
			def, err := dbDefinition.Get(ctx, defId)
			if err != nil {
				if errors.Is(err, kerr.ErrMissing) {
					return apierr.BadRequest("test definition in the suite is not found: "+defId, err)
				}
				return apierr.InternalServerError(err)
			}
			specs = append(specs, domain.RunSpecOf(def))
		}

		sr, err := dbRun.NewSuiteRun(ctx, suite, specs)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.Conflict("suite or its definitions have been changed. retry", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusCreated, apisuites.ComposeRunResult(sr))
	}
}
