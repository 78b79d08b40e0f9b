package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kevintatou/sparktest/cmd/loops/hook"
	"github.com/kevintatou/sparktest/cmd/loops/recurring"
	"github.com/kevintatou/sparktest/cmd/loops/tasks/gitsync"
	"github.com/kevintatou/sparktest/cmd/loops/tasks/launch"
	"github.com/kevintatou/sparktest/cmd/loops/tasks/monitor"
	apiruns "github.com/kevintatou/sparktest/pkg/api/types/runs"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest"
	"github.com/kevintatou/sparktest/pkg/loop"
)

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		return log.New(l.Writer(), l.Prefix(), l.Flags())
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

func WithTimestamp() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetFlags(l.Flags() | log.Ldate | log.Ltime | log.Lmicroseconds)
		return l
	}
}

// Wrapper for monitoring loop tasks
//
// Log the start and end of each time a task is executed.
func monitored[T any](logger *log.Logger, task loop.Task[T]) loop.Task[T] {
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		counter += 1
		timestamp := time.Now()

		logger.Printf("task start: #0x%X", counter)
		defer func() {
			logger.Printf(
				"task end: #0x%X (takes %s): %s\n with value = %+v",
				counter, time.Since(timestamp), next, ret,
			)
		}()

		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	Type domain.LoopType

	// Policy for the looping
	Policy recurring.Policy

	// Hooks around changes of runs
	Hooks hook.Hook[apiruns.Detail, struct{}]
}

// DefaultPolicy is the policy of each loop when it is not specified.
func DefaultPolicy(lt domain.LoopType) recurring.Policy {
	switch lt {
	case domain.Sync:
		return recurring.Forever(time.Hour)
	default:
		return recurring.Forever(time.Second)
	}
}

func StartLoop(
	ctx context.Context,
	logger *log.Logger,
	st sparktest.Sparktest,
	manifest LoopManifest,
) error {
	switch manifest.Type {
	case domain.Launch:
		return StartLaunchLoop(ctx, logger, st, manifest)
	case domain.Monitor:
		return StartMonitorLoop(ctx, logger, st, manifest)
	case domain.Sync:
		return StartSyncLoop(ctx, logger, st, manifest)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownLoopType, manifest.Type)
	}
}

func StartLaunchLoop(
	ctx context.Context,
	logger *log.Logger,
	st sparktest.Sparktest,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[launch loop] "))
	_, err := loop.Start(
		ctx, launch.Seed(),
		monitored(
			l,
			launch.Task(
				l, st.Run().Database(), st.Run().K8s(), manifest.Hooks, time.Now,
			).Applied(manifest.Policy),
		),
		loop.WithTimeout(60*time.Second),
	)
	return err
}

func StartMonitorLoop(
	ctx context.Context,
	logger *log.Logger,
	st sparktest.Sparktest,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[monitor loop] "))
	_, err := loop.Start(
		ctx, monitor.Seed(),
		monitored(
			l,
			monitor.Task(
				l, st.Run().Database(), st.Run().K8s(), manifest.Hooks,
				st.Config().Cluster().JobTimeout(), time.Now,
			).Applied(manifest.Policy),
		),
		loop.WithTimeout(60*time.Second),
	)
	return err
}

func StartSyncLoop(
	ctx context.Context,
	logger *log.Logger,
	st sparktest.Sparktest,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[sync loop] "))
	_, err := loop.Start(
		ctx, gitsync.Seed(),
		monitored(
			l,
			gitsync.Task(
				l, st.Definition().Database(),
				gitsync.RepositoriesOf(st.Config().Sync()),
				gitsync.ShallowClone,
			).Applied(manifest.Policy),
		),
		loop.WithTimeout(10*time.Minute),
	)
	return err
}
