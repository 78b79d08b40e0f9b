package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kevintatou/sparktest/pkg/auth/token"
	"github.com/youta-t/flarc"
)

type Flag struct {
	KeyFile string `flag:"key-file" help:"path to the key file which the server verifies tokens with"`
	Subject string `flag:"subject" help:"who the token is issued for"`
	TTL     string `flag:"ttl" help:"how long the token is valid, like 24h"`
}

func New() (flarc.Command, error) {
	issue, err := flarc.NewCommand(
		"Issue a bearer token for the API.",
		Flag{TTL: "24h"},
		flarc.Args{},
		Task(time.Now),
		flarc.WithDescription(`
Print a signed bearer token.

    {{ .Command }} --key-file ./sign.key --subject ci --ttl 720h

Pass it to the API as "Authorization: Bearer TOKEN".
`),
	)
	if err != nil {
		return nil, err
	}
	return flarc.NewCommandGroup(
		"Manage bearer tokens.",
		struct{}{},
		flarc.WithSubcommand("issue", issue),
	)
}

func Task(now func() time.Time) func(context.Context, flarc.Commandline[Flag], []any) error {
	return func(ctx context.Context, cl flarc.Commandline[Flag], _ []any) error {
		flags := cl.Flags()
		if flags.KeyFile == "" {
			return errors.Join(flarc.ErrUsage, errors.New("--key-file is required"))
		}
		if flags.Subject == "" {
			return errors.Join(flarc.ErrUsage, errors.New("--subject is required"))
		}
		ttl, err := time.ParseDuration(flags.TTL)
		if err != nil {
			return errors.Join(flarc.ErrUsage, fmt.Errorf("--ttl: %w", err))
		}

		key, err := token.LoadKey(flags.KeyFile)
		if err != nil {
			return err
		}
		tok, err := token.Issue(key, flags.Subject, ttl, now())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cl.Stdout(), tok)
		return err
	}
}
