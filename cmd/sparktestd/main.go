package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/kevintatou/sparktest/pkg/auth/token"
	"github.com/kevintatou/sparktest/pkg/buildtime"
	configs "github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest"
	"github.com/kevintatou/sparktest/pkg/utils/filewatch"
)

func main() {

	pconfig := flag.String(
		"config", os.Getenv("SPARKTEST_CONFIG"), "path to config file",
	)
	schemaRepo := flag.String("schema-repo", os.Getenv("SPARKTEST_SCHEMA"), "schema repository path")
	kubeconfig := flag.String("kubeconfig", "", "path to kubeconfig. It wins over $KUBECONFIG and ~/.kube/config")
	loglevel := flag.String("loglevel", "warn", "log level. debug|info|warn|error|off")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	conf, err := configs.LoadServerConfig(*pconfig)
	if err != nil {
		panic(err)
	}

	var verify func(string) error
	if auth := conf.Auth(); auth != nil {
		key, err := token.LoadKey(auth.SignKeyFile())
		if err != nil {
			panic(err)
		}
		verify = func(tok string) error {
			_, err := token.Verify(key, tok)
			return err
		}
	}

	st, err := sparktest.Default(
		ctx, conf,
		sparktest.WithSchemaRepository(*schemaRepo),
		sparktest.WithKubeconfig(*kubeconfig),
	)
	if err != nil {
		panic(err)
	}

	{
		ctx_, ccan, err := st.Schema().Guard(ctx)
		if err != nil {
			panic(err)
		}
		defer ccan()
		ctx = ctx_
	}
	{
		watched := []string{*pconfig}
		if auth := conf.Auth(); auth != nil {
			watched = append(watched, auth.SignKeyFile())
		}
		ctx_, ccan, err := filewatch.UntilModifyContext(ctx, watched...)
		if err != nil {
			panic(err)
		}
		defer ccan()
		ctx = ctx_
	}

	server := BuildServer(st, *loglevel, verify)
	server.Logger.Infof("sparktestd %s", buildtime.VersionString())
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		if err := server.Start(fmt.Sprintf(":%d", conf.Port())); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			server.Logger.Infof("context has been done: %s, cause: %s", err, context.Cause(ctx))
		}
	case err := <-ch:
		if err != nil {
			server.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	server.Logger.Info("shutting down...")
	qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer qcancel()
	if err := server.Shutdown(qctx); err != nil {
		server.Logger.Errorf("Shutdown with error. %+v", err)
		exit = 1
	}
	st.Close()
	os.Exit(exit)
}
