package echoutil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs every request with its response status and latency.
//
// When the handler returns an error, the status is the one the error handler will respond with.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()

		err := next(c)

		elapsed := time.Since(begin)
		status := StatusOf(c, err)
		switch {
		case status >= http.StatusInternalServerError:
			c.Logger().Errorf("%s %s -> %d in %v: %+v", req.Method, req.URL, status, elapsed, err)
		case err != nil:
			c.Logger().Warnf("%s %s -> %d in %v: %v", req.Method, req.URL, status, elapsed, err)
		default:
			c.Logger().Infof("%s %s -> %d in %v", req.Method, req.URL, status, elapsed)
		}
		return err
	}
}

// StatusOf reports the HTTP status for the result of handling c.
func StatusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr.Code
	}
	return http.StatusInternalServerError
}

// SetLevel sets log level of e by name: debug|info|warn|error|off.
//
// Unknown names fall back to warn.
func SetLevel(e *echo.Echo, loglevel string) {
	levels := map[string]log.Lvl{
		"debug": log.DEBUG,
		"info":  log.INFO,
		"warn":  log.WARN,
		"":      log.WARN,
		"error": log.ERROR,
		"off":   log.OFF,
	}
	lvl, ok := levels[strings.ToLower(loglevel)]
	if !ok {
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
		return
	}
	e.Logger.SetLevel(lvl)
}
