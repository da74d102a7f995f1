package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ccnt/counter"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Globals holds the top-level flags shared by every command.
type Globals struct {
	// Suite is the suite file path.
	Suite string
	// DB is the results database path. Empty or "none" disables storage.
	DB string
	// Counter overrides the suite's counter backend when set.
	Counter counter.Kind
	// Runs overrides the suite's samples per workload when positive.
	Runs int
	// Config is the CLI configuration file path.
	Config string
	// Stdout receives command output.
	Stdout io.Writer
}

type globalsKey struct{}

// WithGlobals returns a new context.Context containing g.
func WithGlobals(ctx context.Context, g Globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, g)
}

// globalsFrom returns the globals stored in ctx, with Stdout defaulting to
// [os.Stdout].
func globalsFrom(ctx context.Context) Globals {
	g, _ := ctx.Value(globalsKey{}).(Globals)
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}

	return g
}

// storeDisabled is the [Globals.DB] value that disables storage.
const storeDisabled = "none"

func (g Globals) storeEnabled() bool {
	return g.DB != "" && g.DB != storeDisabled
}
