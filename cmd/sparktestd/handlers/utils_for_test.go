package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// codeOf returns the status code of err returned from handlers.
func codeOf(t *testing.T, err error) int {
	t.Helper()
	herr := new(echo.HTTPError)
	if !errors.As(err, &herr) {
		t.Fatalf("error is not echo.HTTPError: %+v", err)
	}
	return herr.Code
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("response is not JSON: %s", err)
	}
	return v
}

func withParam(c echo.Context, name string, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

const (
	executorId   = "7b0f5c52-6f0c-4a8e-8d7e-3b9f1f2a0c01"
	definitionId = "c3a8e1d4-5b6f-4c2a-9e0d-1f2b3c4d5e6f"
	runId        = "1d6f7a9e-4a1c-4bb8-9f3c-2b2f8f0e9d11"
	suiteId      = "5e4d3c2b-1a09-4f8e-b7d6-c5b4a3928170"
	suiteRunId   = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)
