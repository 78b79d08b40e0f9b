package handlers

import (
	"context"
	"net/http"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	"github.com/labstack/echo/v4"
)

const Banner = "SparkTest backend is running"

func RootHandler(c echo.Context) error {
	return c.String(http.StatusOK, Banner)
}

// HealthHandler responds "OK" when the database is reachable.
func HealthHandler(ping func(context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := ping(c.Request().Context()); err != nil {
			return apierr.ServiceUnavailable("database is not reachable", err)
		}
		return c.JSON(http.StatusOK, "OK")
	}
}
