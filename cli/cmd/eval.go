package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/exparse/calc"
	"github.com/ardnew/exparse/log"
)

// Evaluation engines.
const (
	engineTree = "tree"
	engineVM   = "vm"
)

// forkConfig holds the flags that tune fork-join evaluation.
type forkConfig struct {
	Sequential bool `help:"Evaluate on a single goroutine"`
	ForkLevels int  `default:"${forkLevels}" help:"Levels below the root that may fork the right operand"`
	ForkDepth  int  `default:"${forkDepth}"  help:"Minimum subtree depth worth forking"`
}

func (f forkConfig) options() []calc.EvalOption {
	if f.Sequential {
		return []calc.EvalOption{calc.WithSequential()}
	}

	return []calc.EvalOption{
		calc.WithForkLevels(f.ForkLevels),
		calc.WithForkDepth(f.ForkDepth),
	}
}

func (f forkConfig) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("sequential", f.Sequential),
		slog.Int("fork_levels", f.ForkLevels),
		slog.Int("fork_depth", f.ForkDepth),
	}
}

// Eval parses an expression and evaluates it with the given variable
// bindings.
type Eval struct {
	Fork forkConfig `embed:""`

	Expr     []string           `arg:""                 help:"Expression to evaluate; words are joined with spaces" name:"expr"  optional:""`
	Var      map[string]float64 `                       help:"Bind variable NAME to VALUE"                          placeholder:"NAME=VALUE" short:"v"`
	Engine   string             `default:"tree"         enum:"tree,vm"                                              help:"Evaluation engine (${enum})"`
	MaxDepth int                `default:"${maxDepth}"  help:"Maximum nesting of groups and let bindings (0 for no limit)"`
	Tree     bool               `help:"Print the parenthesized tree before the result" short:"t"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.With(slog.String("command", "eval"))

	tree, err := parseInput(ctx, e.Expr,
		calc.WithMaxDepth(e.MaxDepth),
		calc.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if e.Tree {
		if _, err := fmt.Fprintln(w, tree.String()); err != nil {
			return err
		}
	}

	result, err := e.evaluate(ctx, tree)
	if err != nil {
		return ErrEvaluate.
			With(slog.String("engine", e.Engine)).
			Wrap(err)
	}

	logger.DebugContext(ctx, "evaluated",
		append(e.Fork.attrs(),
			slog.String("engine", e.Engine),
			slog.Int("depth", tree.Depth()),
			slog.Float64("result", result),
		)...,
	)

	_, err = fmt.Fprintln(w, strconv.FormatFloat(result, 'g', -1, 64))

	return err
}

func (e *Eval) evaluate(ctx context.Context, tree *calc.Tree) (float64, error) {
	if e.Engine == engineVM {
		prog, err := tree.Compile(ctx)
		if err != nil {
			return 0, err
		}

		return prog.Run(ctx, e.Var)
	}

	return tree.Evaluate(ctx, e.Var, e.Fork.options()...)
}
