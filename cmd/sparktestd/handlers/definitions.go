package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apidefinitions "github.com/kevintatou/sparktest/pkg/api/types/definitions"
	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	"github.com/kevintatou/sparktest/pkg/domain"
	dbdefinition "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	dbexecutor "github.com/kevintatou/sparktest/pkg/domain/executor/db"
	"github.com/kevintatou/sparktest/pkg/domain/validation"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	kstrings "github.com/kevintatou/sparktest/pkg/utils/strings"
	"github.com/labstack/echo/v4"
)

func ListDefinitionsHandler(dbDefinition dbdefinition.DefinitionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		labels := []string{}
		for _, l := range kstrings.SplitTrimmed(c.QueryParam("label"), ",") {
			labels = append(labels, strings.ToLower(l))
		}

		defs, err := dbDefinition.List(ctx, labels)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apidefinitions.Detail, 0, len(defs))
		for _, d := range defs {
			resp = append(resp, apidefinitions.Compose(d))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetDefinitionHandler(dbDefinition dbdefinition.DefinitionInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		d, err := dbDefinition.Get(ctx, id)
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apidefinitions.Compose(d))
	}
}

// executorExists checks that the executor is registered.
//
// When id is nil, it is ok.
func executorExists(ctx context.Context, dbExecutor dbexecutor.ExecutorInterface, id *string) error {
	if id == nil {
		return nil
	}
	if err := uuidOf("executor_id", *id); err != nil {
		return err
	}
	if _, err := dbExecutor.Get(ctx, *id); err != nil {
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.BadRequest("executor is not found: "+*id, err)
		}
		return apierr.InternalServerError(err)
	}
	return nil
}

func CreateDefinitionHandler(
	dbDefinition dbdefinition.DefinitionInterface,
	dbExecutor dbexecutor.ExecutorInterface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apidefinitions.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		id, err := idOrNew(req.Id)
		if err != nil {
			return err
		}
		change, err := sanitizeDefinition(req)
		if err != nil {
			return err
		}
		if err := executorExists(ctx, dbExecutor, req.ExecutorId); err != nil {
			return err
		}

		d := change.Apply(domain.Definition{Id: id})
		created, err := dbDefinition.Create(ctx, d)
		if err != nil {
			if errors.Is(err, kerr.ErrConflict) {
				return apierr.Conflict(
					"definition id or source is used already", apierr.WithError(err),
				)
			}
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.BadRequest("executor is not found", err)
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apidefinitions.Compose(created))
	}
}

// sourceOf trims source. Blank source is nil.
func sourceOf(source *string) *string {
	if source == nil {
		return nil
	}
	s := strings.TrimSpace(*source)
	if s == "" {
		return nil
	}
	return &s
}

// updateError converts errors from updating a definition.
func updateError(err error) error {
	switch {
	case errors.Is(err, kerr.ErrMissing):
		return apierr.NotFound()
	case errors.Is(err, kerr.ErrConflict):
		return apierr.Conflict("source is used by another definition", apierr.WithError(err))
	default:
		return apierr.InternalServerError(err)
	}
}

// sanitizeDefinition makes a change replacing all editable fields.
func sanitizeDefinition(req *apidefinitions.Create) (domain.DefinitionChange, error) {
	name, err := validation.Name(req.Name)
	if err != nil {
		return domain.DefinitionChange{}, invalidInput("name", err)
	}
	description, err := validation.OptionalDescription(req.Description)
	if err != nil {
		return domain.DefinitionChange{}, invalidInput("description", err)
	}
	image, err := validation.Image(req.Image)
	if err != nil {
		return domain.DefinitionChange{}, invalidInput("image", err)
	}
	commands, err := validation.Commands(req.Commands)
	if err != nil {
		return domain.DefinitionChange{}, invalidInput("commands", err)
	}
	labels, err := validation.Labels(req.Labels)
	if err != nil {
		return domain.DefinitionChange{}, invalidInput("labels", err)
	}
	source := sourceOf(req.Source)

	return domain.DefinitionChange{
		Name:             &name,
		Description:      description,
		ClearDescription: description == nil,
		Image:            &image,
		Commands:         commands,
		ExecutorId:       req.ExecutorId,
		ClearExecutorId:  req.ExecutorId == nil,
		Source:           source,
		ClearSource:      source == nil,
		Labels:           labels,
		ReplaceLabels:    true,
	}, nil
}

func PutDefinitionHandler(
	dbDefinition dbdefinition.DefinitionInterface,
	dbExecutor dbexecutor.ExecutorInterface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		req := new(apidefinitions.Create)
		if err := decodeJSON(c, req); err != nil {
			return err
		}
		change, err := sanitizeDefinition(req)
		if err != nil {
			return err
		}
		if err := executorExists(ctx, dbExecutor, req.ExecutorId); err != nil {
			return err
		}

		if _, err := dbDefinition.Update(ctx, id, change); err != nil {
			return updateError(err)
		}
		return c.JSON(http.StatusOK, "Updated test definition")
	}
}

func PatchDefinitionHandler(
	dbDefinition dbdefinition.DefinitionInterface,
	dbExecutor dbexecutor.ExecutorInterface,
	paramId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		req := new(apidefinitions.Patch)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		change := domain.DefinitionChange{}
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
		if req.Image.Present {
			if req.Image.Null {
				return apierr.BadRequest(`"image" can not be null`, nil)
			}
			image, err := validation.Image(req.Image.Value)
			if err != nil {
				return invalidInput("image", err)
			}
			change.Image = &image
		}
		if req.Commands.Present {
			if req.Commands.Null {
				return apierr.BadRequest(`"commands" can not be null`, nil)
			}
			commands, err := validation.Commands(req.Commands.Value)
			if err != nil {
				return invalidInput("commands", err)
			}
			change.Commands = commands
		}
		if req.ExecutorId.Present {
			if req.ExecutorId.Null {
				change.ClearExecutorId = true
			} else {
				if err := executorExists(ctx, dbExecutor, pointer.Ref(req.ExecutorId.Value)); err != nil {
					return err
				}
				change.ExecutorId = pointer.Ref(req.ExecutorId.Value)
			}
		}
		if req.Source.Present {
			if source := sourceOf(&req.Source.Value); req.Source.Null || source == nil {
				change.ClearSource = true
			} else {
				change.Source = source
			}
		}
		if req.Labels.Present {
			labels, err := validation.Labels(req.Labels.Value)
			if err != nil {
				return invalidInput("labels", err)
			}
			change.Labels = labels
			change.ReplaceLabels = true
		}

		updated, err := dbDefinition.Update(ctx, id, change)
		if err != nil {
			return updateError(err)
		}
		return c.JSON(http.StatusOK, apidefinitions.Compose(updated))
	}
}

func DeleteDefinitionHandler(dbDefinition dbdefinition.DefinitionInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := validId(c, paramId)
		if err != nil {
			return err
		}

		if err := dbDefinition.Delete(ctx, id); err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, "Deleted test definition")
	}
}
