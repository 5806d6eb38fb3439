package cmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/exparse/cli/cmd/repl"
	"github.com/ardnew/exparse/log"
)

// Repl starts an interactive session that evaluates one expression per line.
type Repl struct {
	Fork forkConfig `embed:""`

	Var map[string]float64 `help:"Bind variable NAME to VALUE" placeholder:"NAME=VALUE" short:"v"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	logger := log.With(slog.String("command", "repl"))

	logger.DebugContext(ctx, "repl start",
		append(r.Fork.attrs(),
			slog.String("cache_dir", cacheDir),
			slog.Any("vars", slices.Sorted(maps.Keys(r.Var))),
		)...,
	)

	return repl.Run(ctx, cacheDir, r.Var, logger, r.Fork.options()...)
}
