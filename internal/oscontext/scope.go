package oscontext

import (
	"errors"
	"fmt"

	"github.com/crossrun/crossrun/internal/config"
)

// With resolves the context variant for targetOS, runs its scope entry,
// invokes fn with the live context and guarantees scope exit on every
// path out of fn, panics included. When both fn and Exit fail, the exit
// error is joined onto fn's error rather than replacing it. Exit does not
// run when Enter itself fails; nothing was acquired.
func With(targetOS string, opts *config.Options, fn func(Context) error, ctxOpts ...Option) error {
	return runScope(FactoryFor(targetOS)(ctxOpts...), opts, fn)
}

func runScope(ctx Context, opts *config.Options, fn func(Context) error) (err error) {
	if err := ctx.Enter(opts); err != nil {
		return fmt.Errorf("enter context: %w", err)
	}
	defer func() {
		if exitErr := ctx.Exit(); exitErr != nil {
			err = errors.Join(err, exitErr)
		}
	}()
	return fn(ctx)
}
