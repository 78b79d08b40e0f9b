package main

import (
	"time"

	"github.com/kevintatou/sparktest/cmd/sparktestd/handlers"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest"
	"github.com/kevintatou/sparktest/pkg/utils/echoutil"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const API_ROOT = "/api"

// BuildServer mounts handlers of SparkTest API.
//
// When verify is not nil, requests changing something under API_ROOT require bearer tokens.
func BuildServer(st sparktest.Sparktest, loglevel string, verify func(token string) error) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	echoutil.SetLevel(e, loglevel)

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.CORS())
	e.Use(echoutil.LogHandlerFunc)

	e.GET("/", handlers.RootHandler)

	api := e.Group(API_ROOT)
	if verify != nil {
		api.Use(echoutil.BearerAuth(verify))
	}

	dbExecutor := st.Executor().Database()
	dbDefinition := st.Definition().Database()
	dbSuite := st.Suite().Database()
	dbRun := st.Run().Database()
	k8s := st.Run().K8s()

	api.GET("/health", handlers.HealthHandler(st.Ping))

	api.GET("/test-executors", handlers.ListExecutorsHandler(dbExecutor))
	api.POST("/test-executors", handlers.CreateExecutorHandler(dbExecutor))
	api.GET("/test-executors/:id", handlers.GetExecutorHandler(dbExecutor, "id"))
	api.DELETE("/test-executors/:id", handlers.DeleteExecutorHandler(dbExecutor, "id"))

	api.GET("/test-definitions", handlers.ListDefinitionsHandler(dbDefinition))
	api.POST("/test-definitions", handlers.CreateDefinitionHandler(dbDefinition, dbExecutor))
	api.GET("/test-definitions/:id", handlers.GetDefinitionHandler(dbDefinition, "id"))
	api.PUT("/test-definitions/:id", handlers.PutDefinitionHandler(dbDefinition, dbExecutor, "id"))
	api.PATCH("/test-definitions/:id", handlers.PatchDefinitionHandler(dbDefinition, dbExecutor, "id"))
	api.DELETE("/test-definitions/:id", handlers.DeleteDefinitionHandler(dbDefinition, "id"))

	api.GET("/test-runs", handlers.ListRunsHandler(dbRun))
	api.POST("/test-runs", handlers.CreateRunHandler(dbDefinition, dbRun, k8s))
	api.GET("/test-runs/:id", handlers.GetRunHandler(dbRun, "id"))
	api.POST("/test-runs/:id/cancel", handlers.CancelRunHandler(dbRun, k8s, "id"))
	api.DELETE("/test-runs/:id", handlers.DeleteRunHandler(dbRun, k8s, "id"))
	api.GET("/test-runs/:id/logs", handlers.GetRunLogsHandler(dbRun, k8s, "id"))

	api.GET("/test-suites", handlers.ListSuitesHandler(dbSuite))
	api.POST("/test-suites", handlers.CreateSuiteHandler(dbSuite))
	api.GET("/test-suites/:id", handlers.GetSuiteHandler(dbSuite, "id"))
	api.PUT("/test-suites/:id", handlers.PutSuiteHandler(dbSuite, "id"))
	api.PATCH("/test-suites/:id", handlers.PatchSuiteHandler(dbSuite, "id"))
	api.DELETE("/test-suites/:id", handlers.DeleteSuiteHandler(dbSuite, "id"))
	api.POST("/test-suites/:id/run", handlers.RunSuiteHandler(dbSuite, dbDefinition, dbRun, "id"))

	api.GET("/k8s/health", handlers.K8sHealthHandler(k8s, time.Now))
	api.GET("/k8s/jobs/:job_name/logs", handlers.GetJobLogsHandler(k8s, "job_name"))
	api.GET("/k8s/jobs/:job_name/status", handlers.GetJobStatusHandler(k8s, "job_name", time.Now))
	api.DELETE("/k8s/jobs/:job_name", handlers.DeleteJobHandler(k8s, "job_name", time.Now))

	return e
}
