package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	subkey "github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/key"
	subschema "github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/schema"
	subtoken "github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/token"
	subver "github.com/kevintatou/sparktest/cmd/sparktestctl/subcommands/version"
	"github.com/kevintatou/sparktest/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	schema := try.To(subschema.New(subschema.Postgres)).OrFatal(logger)
	token := try.To(subtoken.New()).OrFatal(logger)
	key := try.To(subkey.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	ctl := try.To(
		flarc.NewCommandGroup(
			"SparkTest administration",
			struct{}{},
			flarc.WithSubcommand("schema", schema),
			flarc.WithSubcommand("token", token),
			flarc.WithSubcommand("key", key),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, ctl, flarc.WithHelp(true)))
}
