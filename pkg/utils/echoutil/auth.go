package echoutil

import (
	"net/http"
	"strings"

	apierr "github.com/kevintatou/sparktest/pkg/api/types/errors"
	"github.com/labstack/echo/v4"
)

// BearerAuth is a middleware which requires "Authorization: Bearer <token>"
// for requests changing something.
//
// GET, HEAD and OPTIONS requests pass through without tokens.
//
// # Args
//
// - verify: checks the token. When it returns error, the request is rejected with 401.
func BearerAuth(verify func(token string) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, tok, ok := strings.Cut(authz, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return apierr.Unauthorized(`"Authorization: Bearer <token>" is required`, nil)
			}

			if err := verify(strings.TrimSpace(tok)); err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return apierr.Unauthorized("token is invalid or expired. issue new one", err)
			}
			return next(c)
		}
	}
}
