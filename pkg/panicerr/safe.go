package panicerr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/panics"
)

// Safe runs fn and turns a panic into an error tagged with name.
func Safe(name string, fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		return result(context.Background(), name, err, catcher.Recovered())
	}
}

func SafeContext(name string, fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn(ctx)
		})
		return result(ctx, name, err, catcher.Recovered())
	}
}

func result(ctx context.Context, name string, err error, rec *panics.Recovered) error {
	if rec == nil {
		return err
	}
	slog.ErrorContext(ctx, "recovered from panic", "worker", name, "panic", fmt.Sprint(rec.Value), "error.stack", string(rec.Stack))
	return fmt.Errorf("%s: %w", name, rec.AsError())
}
