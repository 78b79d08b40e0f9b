package key

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/kevintatou/sparktest/pkg/auth/token"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Length int    `flag:"length" help:"length of the key in bytes, before encoding"`
	Out    string `flag:"out" help:"path to write the key. When not set, the key is printed"`
}

func New() (flarc.Command, error) {
	generate, err := flarc.NewCommand(
		"Generate a key to sign bearer tokens.",
		Flag{Length: 48},
		flarc.Args{},
		Task(),
		flarc.WithDescription(`
Generate a random key, encoded in base64.

    {{ .Command }} --out ./sign.key

The file is not overwritten if it exists.
`),
	)
	if err != nil {
		return nil, err
	}
	return flarc.NewCommandGroup(
		"Manage keys for bearer tokens.",
		struct{}{},
		flarc.WithSubcommand("generate", generate),
	)
}

func Task() func(context.Context, flarc.Commandline[Flag], []any) error {
	return func(ctx context.Context, cl flarc.Commandline[Flag], _ []any) error {
		flags := cl.Flags()
		if flags.Length < token.MinKeyLength {
			return errors.Join(
				flarc.ErrUsage,
				fmt.Errorf("--length should be %d or more", token.MinKeyLength),
			)
		}

		k, err := token.NewKey(uint(flags.Length))
		if err != nil {
			return err
		}
		encoded := base64.StdEncoding.EncodeToString(k)

		if flags.Out == "" {
			_, err := fmt.Fprintln(cl.Stdout(), encoded)
			return err
		}

		f, err := os.OpenFile(flags.Out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := fmt.Fprintln(f, encoded); err != nil {
			return err
		}
		return f.Close()
	}
}
