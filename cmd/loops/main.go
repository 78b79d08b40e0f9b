package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevintatou/sparktest/cmd/loops/hook"
	"github.com/kevintatou/sparktest/cmd/loops/recurring"
	cfg_hook "github.com/kevintatou/sparktest/pkg/configs/hook"
	configs "github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest"
	"github.com/kevintatou/sparktest/pkg/utils/args"
	"github.com/kevintatou/sparktest/pkg/utils/filewatch"
	"github.com/kevintatou/sparktest/pkg/utils/try"
)

func main() {
	logger := byLogger(log.Default(), WithTimestamp())
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("SPARKTEST_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("SPARKTEST_SCHEMA"), "schema repository path",
	)
	phooks := flag.String(
		"hooks", os.Getenv("SPARKTEST_HOOK_CONFIG"), "path to hook config file",
	)
	pkubeconfig := flag.String(
		"kubeconfig", "", "path to kubeconfig. It wins over $KUBECONFIG and ~/.kube/config",
	)
	loopType := args.Parser(domain.AsLoopType)
	flag.Var(loopType, "type", "loop type (launch|monitor|sync)")
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: 0) as inteval.`+
			` "backlog" = run until error or backlog is over.`+
			` default: forever:1h for sync, forever:1s for others.`,
	)
	flag.Parse()

	if !loopType.IsSet() {
		logger.Fatal("-type is required")
	}

	{
		watched := []string{*pconfig}
		if *phooks != "" {
			watched = append(watched, *phooks)
		}
		wctx, wcancel, err := filewatch.UntilModifyContext(ctx, watched...)
		if err != nil {
			logger.Fatal(err)
		}
		defer wcancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadServerConfig(*pconfig)).OrFatal(logger)
	hooks := try.To(cfg_hook.Load(*phooks)).OrFatal(logger)

	st := try.To(sparktest.Default(
		ctx, conf,
		sparktest.WithSchemaRepository(*pSchemaRepo),
		sparktest.WithKubeconfig(*pkubeconfig),
	)).OrFatal(logger)
	defer st.Close()

	{
		sctx, scancel, err := st.Schema().Guard(ctx)
		if err != nil {
			logger.Fatal(err)
		}
		defer scancel()
		ctx = sctx
	}

	lt := loopType.Value()
	p := policy.ValueOr(DefaultPolicy(lt))
	logger.Printf(`start loop "%s" /w policy "%s"`, lt, p)

	err := StartLoop(
		ctx, logger, st,
		LoopManifest{
			Type:   lt,
			Policy: recurring.UntilError(p),
			Hooks:  hook.Build(hooks.Lifecycle),
		},
	)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Println(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
		return
	}
	logger.Fatal(err)
}
