package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/exparse/calc"
	"github.com/ardnew/exparse/log"
)

// Fmt parses an expression and renders it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as expression source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree outline."`
}

// parseFormat parses the input of a fmt subcommand.
func parseFormat(
	ctx context.Context,
	format string,
	expr []string,
	maxDepth int,
) (*calc.Tree, error) {
	logger := log.With(
		slog.String("command", "fmt"),
		slog.String("format", format),
	)

	tree, err := parseInput(ctx, expr,
		calc.WithMaxDepth(maxDepth),
		calc.WithLogger(logger),
	)
	if err != nil {
		return nil, ErrFormat.With(slog.String("format", format)).Wrap(err)
	}

	return tree, nil
}

// Native formats input as expression source.
type Native struct {
	Indent   int `default:"0"           help:"Indent width; break each let body onto its own line when positive" short:"i"`
	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting of groups and let bindings (0 for no limit)"`

	Expr []string `arg:"" help:"Expression to format; words are joined with spaces" name:"expr" optional:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := parseFormat(ctx, "native", f.Expr, f.MaxDepth)
	if err != nil {
		return err
	}

	return tree.Format(ctx, stdout(ctx), f.Indent)
}

// JSON formats input as JSON.
type JSON struct {
	Indent   int `default:"2"           help:"Indent width for JSON output" short:"i"`
	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting of groups and let bindings (0 for no limit)"`

	Expr []string `arg:"" help:"Expression to format; words are joined with spaces" name:"expr" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := parseFormat(ctx, "json", j.Expr, j.MaxDepth)
	if err != nil {
		return err
	}

	return tree.FormatJSON(ctx, stdout(ctx), j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent   int `default:"2"           help:"Indent width for YAML output" short:"i"`
	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting of groups and let bindings (0 for no limit)"`

	Expr []string `arg:"" help:"Expression to format; words are joined with spaces" name:"expr" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := parseFormat(ctx, "yaml", y.Expr, y.MaxDepth)
	if err != nil {
		return err
	}

	return tree.FormatYAML(ctx, stdout(ctx), y.Indent)
}

// AST formats input as an indented outline of the syntax tree.
type AST struct {
	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting of groups and let bindings (0 for no limit)"`

	Expr []string `arg:"" help:"Expression to format; words are joined with spaces" name:"expr" optional:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := parseFormat(ctx, "ast", a.Expr, a.MaxDepth)
	if err != nil {
		return err
	}

	return tree.Print(ctx, stdout(ctx))
}
