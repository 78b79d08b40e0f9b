package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	kerr "github.com/kevintatou/sparktest/pkg/domain/errors"
	"github.com/labstack/echo/v4"
)

// decodeJSON reads request body as JSON into v.
func decodeJSON(c echo.Context, v any) error {
	req := c.Request()
	ctyp := strings.ToLower(req.Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(ctyp, echo.MIMEApplicationJSON) {
		return apierr.BadRequest(
			"unexpected content type. it should be application/json", nil,
		)
	}
	if req.Body == nil {
		return apierr.BadRequest("request body is required", nil)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

// invalidInput converts an error from sanitizers into 400.
func invalidInput(field string, err error) error {
	if errors.Is(err, kerr.ErrInvalidInput) {
		return apierr.BadRequest(field+": "+err.Error(), err)
	}
	return apierr.InternalServerError(err)
}

// idOrNew returns id if it is given, or a new one.
//
// Given id should be an UUID. The nil UUID is taken as "not given".
func idOrNew(id *string) (string, error) {
	if id == nil || *id == "" {
		return uuid.NewString(), nil
	}
	parsed, err := uuid.Parse(*id)
	if err != nil {
		return "", apierr.BadRequest(`"id" should be an UUID`, err)
	}
	if parsed == uuid.Nil {
		return uuid.NewString(), nil
	}
	return *id, nil
}

// validId checks path parameter is an UUID. Non-UUID ids are never found.
func validId(c echo.Context, param string) (string, error) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", apierr.NotFound()
	}
	return id, nil
}

func uuidOf(field string, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierr.BadRequest(field+" should be an UUID: "+id, err)
	}
	return nil
}
